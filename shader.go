package coge

import "github.com/hajimehoshi/ebiten/v2"

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Ebitengine uses premultiplied alpha; shaders un-premultiply before processing
// and re-premultiply output where needed.

const lightnessShaderSrc = `//kage:unit pixels
package main

var Amount float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	if c.a == 0 {
		return c
	}
	rgb := clamp(c.rgb/c.a+Amount, 0, 1)
	return vec4(rgb*c.a, c.a)
}
`

// maskShaderSrc reveals image 0 where the brightness of the mask in image 1
// is below Progress. A short ramp softens the edge.
const maskShaderSrc = `//kage:unit pixels
package main

var Progress float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	m := imageSrc1At(src)
	if m.a > 0 {
		m.rgb /= m.a
	}
	b := dot(m.rgb, vec3(0.299, 0.587, 0.114))
	a := clamp((Progress-b)*16+0.5, 0, 1)
	return c * a
}
`

// --- Lazy shader compilation (no sync.Once; the engine is single-threaded) ---

var (
	lightnessShader *ebiten.Shader
	maskShader      *ebiten.Shader
)

func ensureLightnessShader() *ebiten.Shader {
	if lightnessShader == nil {
		s, err := ebiten.NewShader([]byte(lightnessShaderSrc))
		if err != nil {
			panic("coge: failed to compile lightness shader: " + err.Error())
		}
		lightnessShader = s
	}
	return lightnessShader
}

func ensureMaskShader() *ebiten.Shader {
	if maskShader == nil {
		s, err := ebiten.NewShader([]byte(maskShaderSrc))
		if err != nil {
			panic("coge: failed to compile mask shader: " + err.Error())
		}
		maskShader = s
	}
	return maskShader
}
