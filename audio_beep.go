package coge

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const defaultSampleRate = beep.SampleRate(44100)

type beepSound struct {
	name   string
	music  bool
	buf    *beep.Buffer
	ctrl   *beep.Ctrl
	vol    *effects.Volume
	volume float64
}

func (s *beepSound) Name() string { return s.name }

// BeepAudio is the Audio back-end built on beep. Every sound is decoded into
// memory at the output sample rate and played through one mixer.
type BeepAudio struct {
	format beep.Format
	mixer  *beep.Mixer
	closed bool
}

// NewBeepAudio opens the speaker at rate samples per second. A rate of 0
// selects 44100.
func NewBeepAudio(rate int) (*BeepAudio, error) {
	sr := defaultSampleRate
	if rate > 0 {
		sr = beep.SampleRate(rate)
	}
	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("%w: speaker: %w", ErrResource, err)
	}
	a := &BeepAudio{
		format: beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2},
		mixer:  &beep.Mixer{},
	}
	speaker.Play(a.mixer)
	logger.Debug("audio opened", "rate", int(sr))
	return a, nil
}

func (a *BeepAudio) load(path string, music bool) (*beepSound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResource, err)
	}
	stream, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: decode %s: %w", ErrResource, path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != a.format.SampleRate {
		src = beep.Resample(4, format.SampleRate, a.format.SampleRate, stream)
	}
	buf := beep.NewBuffer(a.format)
	buf.Append(src)
	return &beepSound{name: path, music: music, buf: buf, volume: 1}, nil
}

// NewSound implements Audio.
func (a *BeepAudio) NewSound(path string) (Sound, error) { return a.load(path, false) }

// NewMusic implements Audio.
func (a *BeepAudio) NewMusic(path string) (Sound, error) { return a.load(path, true) }

func beepOf(s Sound) *beepSound {
	bs, _ := s.(*beepSound)
	return bs
}

// start builds a fresh control chain for s. Must hold the speaker lock.
func (a *BeepAudio) start(s *beepSound, loop bool, wrap func(beep.Streamer) beep.Streamer) {
	if s.ctrl != nil {
		s.ctrl.Streamer = nil
	}
	var st beep.Streamer = s.buf.Streamer(0, s.buf.Len())
	if loop {
		st = beep.Loop(-1, s.buf.Streamer(0, s.buf.Len()))
	}
	s.vol = &effects.Volume{Streamer: st, Base: 2}
	applyVolume(s.vol, s.volume)
	var out beep.Streamer = s.vol
	if wrap != nil {
		out = wrap(out)
	}
	s.ctrl = &beep.Ctrl{Streamer: out}
	a.mixer.Add(s.ctrl)
}

func applyVolume(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(vol)
}

// Play implements Audio. Playing a sound that is already playing restarts it.
func (a *BeepAudio) Play(s Sound, loop bool) error {
	bs := beepOf(s)
	if bs == nil || a.closed {
		return fmt.Errorf("%w: sound not playable", ErrResource)
	}
	speaker.Lock()
	a.start(bs, loop, nil)
	speaker.Unlock()
	return nil
}

// Stop implements Audio.
func (a *BeepAudio) Stop(s Sound) {
	bs := beepOf(s)
	if bs == nil || bs.ctrl == nil {
		return
	}
	speaker.Lock()
	bs.ctrl.Streamer = nil
	bs.ctrl = nil
	speaker.Unlock()
}

// Pause implements Audio.
func (a *BeepAudio) Pause(s Sound) { a.setPaused(s, true) }

// Resume implements Audio.
func (a *BeepAudio) Resume(s Sound) { a.setPaused(s, false) }

func (a *BeepAudio) setPaused(s Sound, paused bool) {
	bs := beepOf(s)
	if bs == nil || bs.ctrl == nil {
		return
	}
	speaker.Lock()
	bs.ctrl.Paused = paused
	speaker.Unlock()
}

// Volume implements Audio.
func (a *BeepAudio) Volume(s Sound) float64 {
	if bs := beepOf(s); bs != nil {
		return bs.volume
	}
	return 0
}

// SetVolume implements Audio. v is clamped to [0, 1].
func (a *BeepAudio) SetVolume(s Sound, v float64) {
	bs := beepOf(s)
	if bs == nil {
		return
	}
	speaker.Lock()
	bs.volume = clamp01(v)
	if bs.vol != nil {
		applyVolume(bs.vol, bs.volume)
	}
	speaker.Unlock()
}

// Crossfade implements Audio. from fades out and stops while to starts
// looping and fades in, both over d.
func (a *BeepAudio) Crossfade(from, to Sound, d time.Duration) {
	n := a.format.SampleRate.N(d)
	speaker.Lock()
	defer speaker.Unlock()
	if bs := beepOf(from); bs != nil && bs.ctrl != nil && bs.ctrl.Streamer != nil {
		bs.ctrl.Streamer = &ramp{Streamer: bs.ctrl.Streamer, from: 1, to: 0, n: n}
	}
	if bs := beepOf(to); bs != nil && !a.closed {
		a.start(bs, true, func(s beep.Streamer) beep.Streamer {
			return &ramp{Streamer: s, from: 0, to: 1, n: n}
		})
	}
}

// StopAll implements Audio.
func (a *BeepAudio) StopAll() {
	speaker.Lock()
	a.mixer.Clear()
	speaker.Unlock()
}

// Close implements Audio.
func (a *BeepAudio) Close() error {
	if a.closed {
		return nil
	}
	a.StopAll()
	a.closed = true
	speaker.Close()
	return nil
}

// ramp scales its streamer's gain linearly from from to to over n samples.
// A ramp that ends at zero gain ends the stream.
type ramp struct {
	beep.Streamer
	from, to float64
	n, pos   int
}

func (r *ramp) Stream(samples [][2]float64) (int, bool) {
	if r.to == 0 && r.pos >= r.n {
		return 0, false
	}
	n, ok := r.Streamer.Stream(samples)
	for i := range samples[:n] {
		g := r.to
		if r.pos < r.n {
			g = r.from + (r.to-r.from)*float64(r.pos)/float64(r.n)
		}
		samples[i][0] *= g
		samples[i][1] *= g
		r.pos++
	}
	return n, ok
}
