package coge

import (
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// Stats is a snapshot of engine counters.
type Stats struct {
	Frames      uint64
	MeasuredCPS int
	Uptime      time.Duration
	Scenes      int
	LiveSprites int
	Images      int
	Sounds      int
	Fonts       int
	Maps        int
	Paths       int
	Data        int
	HeapBytes   uint64
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Stats{
		Frames:      e.frames,
		MeasuredCPS: e.measure.value,
		Uptime:      e.now - e.started,
		Scenes:      len(e.scenes),
		LiveSprites: e.liveSprites,
		Images:      len(e.images),
		Sounds:      len(e.sounds),
		Fonts:       len(e.fonts),
		Maps:        len(e.maps),
		Paths:       len(e.paths),
		Data:        len(e.data),
		HeapBytes:   ms.HeapAlloc,
	}
}

// Summary formats the counters on one line.
func (st Stats) Summary() string {
	return fmt.Sprintf("up %s, %s frames, heap %s",
		durafmt.Parse(st.Uptime).LimitFirstN(2).Format(shortUnits),
		humanize.Comma(int64(st.Frames)),
		humanize.Bytes(st.HeapBytes))
}

// String lists every counter.
func (st Stats) String() string {
	return fmt.Sprintf("%s; %d cps; scenes %d, sprites %d, images %d, sounds %d, fonts %d, maps %d, paths %d, data %d",
		st.Summary(), st.MeasuredCPS, st.Scenes, st.LiveSprites,
		st.Images, st.Sounds, st.Fonts, st.Maps, st.Paths, st.Data)
}
