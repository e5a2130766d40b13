package coge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/colorm"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

type ebitenImage struct {
	img *ebiten.Image
}

func (i *ebitenImage) Size() (int, int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

type ebitenFont struct {
	name string
	face text.Face
}

func (f *ebitenFont) Name() string { return f.name }

func ebitenOf(img Image) *ebiten.Image {
	if ei, ok := img.(*ebitenImage); ok && ei != nil {
		return ei.img
	}
	return nil
}

func subImage(img *ebiten.Image, rc Rect) *ebiten.Image {
	return img.SubImage(image.Rect(rc.Left, rc.Top, rc.Right, rc.Bottom)).(*ebiten.Image)
}

// ebitenBlend returns the ebiten.Blend value corresponding to b.
func ebitenBlend(b BlendMode) ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// EbitenVideo is the Video back-end built on ebiten. The scene draws into an
// offscreen screen image; Present selects the region EbitenDriver shows.
type EbitenVideo struct {
	mode        VideoMode
	screen      *ebitenImage
	presented   *ebiten.Image
	whitePixel  *ebiten.Image
	scratch     *ebiten.Image
	maskScaled  *ebiten.Image
	defaultFace text.Face

	op      ebiten.DrawImageOptions
	cmOp    colorm.DrawImageOptions
	textOp  text.DrawOptions
	shadeOp ebiten.DrawRectShaderOptions
}

// NewEbitenVideo opens a w x h window titled title.
func NewEbitenVideo(title string, w, h int, fullscreen bool) *EbitenVideo {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetFullscreen(fullscreen)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	v := &EbitenVideo{
		mode:        VideoMode{Width: w, Height: h, Fullscreen: fullscreen, Backend: "ebiten"},
		screen:      &ebitenImage{img: ebiten.NewImage(w, h)},
		whitePixel:  ebiten.NewImage(1, 1),
		defaultFace: text.NewGoXFace(basicfont.Face7x13),
	}
	v.whitePixel.Fill(color.White)
	return v
}

// NewImage implements Video.
func (v *EbitenVideo) NewImage(w, h int) (Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: image size %dx%d", ErrResource, w, h)
	}
	return &ebitenImage{img: ebiten.NewImage(w, h)}, nil
}

// LoadImage implements Video.
func (v *EbitenVideo) LoadImage(path string) (Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	return &ebitenImage{img: img}, nil
}

// NewImageFromImage implements Video.
func (v *EbitenVideo) NewImageFromImage(img image.Image) Image {
	return &ebitenImage{img: ebiten.NewImageFromImage(img)}
}

// DelImage implements Video.
func (v *EbitenVideo) DelImage(img Image) {
	if e := ebitenOf(img); e != nil && img != Image(v.screen) {
		e.Deallocate()
	}
}

// LoadFont implements Video. An empty path returns the built-in bitmap face.
func (v *EbitenVideo) LoadFont(path string, size float64) (Font, error) {
	if path == "" {
		return &ebitenFont{name: "basic", face: v.defaultFace}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: parse font %s: %w", ErrResource, path, err)
	}
	return &ebitenFont{name: path, face: &text.GoTextFace{Source: src, Size: size}}, nil
}

// Screen implements Video.
func (v *EbitenVideo) Screen() Image { return v.screen }

// SetScreen implements Video.
func (v *EbitenVideo) SetScreen(img Image) {
	if ei, ok := img.(*ebitenImage); ok {
		v.screen = ei
	}
}

// DrawImage implements Video.
func (v *EbitenVideo) DrawImage(dst, src Image, srcRect Rect, x, y int, op *DrawOptions) {
	d, s := ebitenOf(dst), ebitenOf(src)
	if d == nil || s == nil || srcRect.Empty() {
		return
	}
	if op == nil {
		op = &DrawOptions{}
	}
	if op.Transparent {
		return
	}
	alpha := op.Alpha
	if alpha <= 0 {
		alpha = 1
	}

	var geo ebiten.GeoM
	w, h := float64(srcRect.Width()), float64(srcRect.Height())
	if op.FlipX {
		geo.Scale(-1, 1)
		geo.Translate(w, 0)
	}
	if op.Rotation != 0 {
		geo.Translate(-w/2, -h/2)
		geo.Rotate(op.Rotation)
		geo.Translate(w/2, h/2)
	}
	if op.Scale > 0 && op.Scale != 1 {
		geo.Scale(op.Scale, op.Scale)
	}
	geo.Translate(float64(x), float64(y))
	sub := subImage(s, srcRect)

	if op.Lightness != 0 {
		var cm colorm.ColorM
		cm.Scale(1, 1, 1, alpha)
		l := float64(op.Lightness) / 255
		cm.Translate(l*alpha, l*alpha, l*alpha, 0)
		v.cmOp = colorm.DrawImageOptions{GeoM: geo, Blend: ebitenBlend(op.Blend), Filter: ebiten.FilterLinear}
		colorm.DrawImage(d, sub, cm, &v.cmOp)
		return
	}
	v.op = ebiten.DrawImageOptions{GeoM: geo, Blend: ebitenBlend(op.Blend)}
	if op.Rotation != 0 || (op.Scale > 0 && op.Scale != 1) {
		v.op.Filter = ebiten.FilterLinear
	}
	v.op.ColorScale.ScaleAlpha(float32(alpha))
	d.DrawImage(sub, &v.op)
}

// FillRect implements Video.
func (v *EbitenVideo) FillRect(dst Image, rc Rect, c Color) {
	d := ebitenOf(dst)
	if d == nil || rc.Empty() || c.A <= 0 {
		return
	}
	v.op = ebiten.DrawImageOptions{}
	v.op.GeoM.Scale(float64(rc.Width()), float64(rc.Height()))
	v.op.GeoM.Translate(float64(rc.Left), float64(rc.Top))
	v.op.ColorScale.ScaleWithColor(c.RGBA())
	d.DrawImage(v.whitePixel, &v.op)
}

// DrawText implements Video. A nil font draws with the built-in face.
func (v *EbitenVideo) DrawText(dst Image, font Font, s string, x, y int, c Color) {
	d := ebitenOf(dst)
	if d == nil {
		return
	}
	face := v.defaultFace
	if f, ok := font.(*ebitenFont); ok && f != nil {
		face = f.face
	}
	v.textOp = text.DrawOptions{}
	v.textOp.GeoM.Translate(float64(x), float64(y))
	v.textOp.ColorScale.ScaleWithColor(c.RGBA())
	text.Draw(d, s, face, &v.textOp)
}

// ensureScratch returns a scratch image at least w x h.
func (v *EbitenVideo) ensureScratch(slot **ebiten.Image, w, h int) *ebiten.Image {
	if s := *slot; s != nil {
		if b := s.Bounds(); b.Dx() >= w && b.Dy() >= h {
			return s
		}
		s.Deallocate()
	}
	*slot = ebiten.NewImage(w, h)
	return *slot
}

// Lightness implements Video.
func (v *EbitenVideo) Lightness(dst Image, rc Rect, amount int) {
	d := ebitenOf(dst)
	if d == nil || amount == 0 {
		return
	}
	rc = rc.Intersect(Rect{0, 0, d.Bounds().Dx(), d.Bounds().Dy()})
	if rc.Empty() {
		return
	}
	w, h := rc.Width(), rc.Height()
	scratch := v.ensureScratch(&v.scratch, w, h)
	scratch.Clear()
	v.op = ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	scratch.DrawImage(subImage(d, rc), &v.op)

	v.shadeOp = ebiten.DrawRectShaderOptions{Blend: ebiten.BlendCopy}
	v.shadeOp.GeoM.Translate(float64(rc.Left), float64(rc.Top))
	v.shadeOp.Images[0] = subImage(scratch, Rect{0, 0, w, h})
	v.shadeOp.Uniforms = map[string]any{"Amount": float32(amount) / 255}
	d.DrawRectShader(w, h, ensureLightnessShader(), &v.shadeOp)
}

// Blend implements Video.
func (v *EbitenVideo) Blend(dst, src Image, srcRect Rect, x, y int, alpha float64) {
	d, s := ebitenOf(dst), ebitenOf(src)
	if d == nil || s == nil || alpha <= 0 {
		return
	}
	v.op = ebiten.DrawImageOptions{}
	v.op.GeoM.Translate(float64(x), float64(y))
	v.op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	d.DrawImage(subImage(s, srcRect), &v.op)
}

// MaskBlend implements Video. The mask is stretched over src.
func (v *EbitenVideo) MaskBlend(dst, src, mask Image, progress float64) {
	d, s, m := ebitenOf(dst), ebitenOf(src), ebitenOf(mask)
	if d == nil || s == nil || m == nil {
		return
	}
	w, h := s.Bounds().Dx(), s.Bounds().Dy()
	scaled := v.ensureScratch(&v.maskScaled, w, h)
	scaled.Clear()
	mw, mh := m.Bounds().Dx(), m.Bounds().Dy()
	v.op = ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	v.op.GeoM.Scale(float64(w)/float64(mw), float64(h)/float64(mh))
	scaled.DrawImage(m, &v.op)

	v.shadeOp = ebiten.DrawRectShaderOptions{}
	v.shadeOp.Images[0] = s
	v.shadeOp.Images[1] = subImage(scaled, Rect{0, 0, w, h})
	v.shadeOp.Uniforms = map[string]any{"Progress": float32(clamp01(progress))}
	d.DrawRectShader(w, h, ensureMaskShader(), &v.shadeOp)
}

// CopyImage implements Video.
func (v *EbitenVideo) CopyImage(dst, src Image, srcRect Rect, x, y int) {
	d, s := ebitenOf(dst), ebitenOf(src)
	if d == nil || s == nil || srcRect.Empty() {
		return
	}
	v.op = ebiten.DrawImageOptions{Blend: ebiten.BlendCopy}
	v.op.GeoM.Translate(float64(x), float64(y))
	d.DrawImage(subImage(s, srcRect), &v.op)
}

// Present implements Video.
func (v *EbitenVideo) Present(src Image, region Rect) {
	if s := ebitenOf(src); s != nil {
		v.presented = subImage(s, region)
	}
}

// Mode implements Video.
func (v *EbitenVideo) Mode() VideoMode { return v.mode }

// Snapshot implements Snapshotter.
func (v *EbitenVideo) Snapshot(img Image) (*image.NRGBA, error) {
	e := ebitenOf(img)
	if e == nil {
		return nil, fmt.Errorf("%w: not an ebiten image", ErrResource)
	}
	b := e.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	e.ReadPixels(out.Pix)
	unpremultiply(out.Pix)
	return out, nil
}

// EbitenDriver runs the engine inside ebiten's game loop. It implements
// ebiten.Game: Update runs one engine frame and Draw shows the region the
// scene presented, scaled to the window.
type EbitenDriver struct {
	Video *EbitenVideo
	frame func() error
}

// Run implements Driver.
func (d *EbitenDriver) Run(frame func() error) error {
	d.frame = frame
	err := ebiten.RunGame(d)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game.
func (d *EbitenDriver) Update() error {
	if err := d.frame(); err != nil {
		if errors.Is(err, ErrTerminated) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// Draw implements ebiten.Game.
func (d *EbitenDriver) Draw(screen *ebiten.Image) {
	p := d.Video.presented
	if p == nil {
		return
	}
	pb, sb := p.Bounds(), screen.Bounds()
	var op ebiten.DrawImageOptions
	sx := float64(sb.Dx()) / float64(pb.Dx())
	sy := float64(sb.Dy()) / float64(pb.Dy())
	scale := math.Min(sx, sy)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(sb.Dx())-float64(pb.Dx())*scale)/2, (float64(sb.Dy())-float64(pb.Dy())*scale)/2)
	screen.DrawImage(p, &op)
}

// Layout implements ebiten.Game.
func (d *EbitenDriver) Layout(outsideWidth, outsideHeight int) (int, int) {
	m := d.Video.Mode()
	return m.Width, m.Height
}
