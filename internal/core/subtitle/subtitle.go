// Package subtitle parses subtitle blobs and selects time-bounded windows.
// Council streaming portals publish tracks as SRT or WebVTT; both are read by
// the same tolerant block parser. Malformed cues are skipped one cue at a
// time, never failing the whole blob
package subtitle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Segment is one time-coded block of subtitle text. After Parse, Index is
// the position in the returned time-ordered slice, not the cue number from
// the source blob
type Segment struct {
	Index    int
	StartSec float64
	EndSec   float64
	Text     string
}

// Parse reads an SRT or WebVTT blob into segments ordered by StartSec.
// Cue identifiers and VTT header/NOTE/STYLE blocks are dropped; text lines
// within a cue are joined with single spaces
func Parse(blob string) []Segment {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	blob = strings.ReplaceAll(blob, "\r\n", "\n")
	blob = strings.ReplaceAll(blob, "\r", "\n")

	var segs []Segment
	for _, block := range splitBlocks(blob) {
		if seg, ok := parseBlock(block); ok {
			segs = append(segs, seg)
		}
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].StartSec < segs[j].StartSec })
	for i := range segs {
		segs[i].Index = i
	}
	return segs
}

// Window returns the segments overlapping [startSec-pad, endSec+pad], with
// the lower bound clamped at zero. Overlap is inclusive at the padded
// boundary: a segment ending exactly at startSec-pad is kept
func Window(segs []Segment, startSec, endSec, pad int) []Segment {
	lo := float64(startSec - pad)
	if lo < 0 {
		lo = 0
	}
	hi := float64(endSec + pad)

	var out []Segment
	for _, s := range segs {
		if s.EndSec >= lo && s.StartSec <= hi {
			out = append(out, s)
		}
	}
	return out
}

// Timestamp renders whole seconds as HH:MM:SS, clamping negatives to zero
func Timestamp(sec float64) string {
	s := int(sec)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// splitBlocks cuts the blob on blank-line runs
func splitBlocks(blob string) [][]string {
	var blocks [][]string
	var cur []string
	for _, line := range strings.Split(blob, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// parseBlock reads one cue. Returns false for headers, notes and anything
// without a parseable time line
func parseBlock(lines []string) (Segment, bool) {
	head := strings.TrimSpace(lines[0])
	if strings.HasPrefix(head, "WEBVTT") || strings.HasPrefix(head, "NOTE") || strings.HasPrefix(head, "STYLE") {
		return Segment{}, false
	}

	timeAt := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timeAt = i
			break
		}
	}
	if timeAt < 0 || timeAt > 1 {
		// at most one identifier line precedes the time line
		return Segment{}, false
	}

	start, end, ok := parseTimeLine(lines[timeAt])
	if !ok || end < start {
		return Segment{}, false
	}

	text := strings.TrimSpace(strings.Join(lines[timeAt+1:], " "))
	if text == "" {
		return Segment{}, false
	}
	return Segment{StartSec: start, EndSec: end, Text: collapseInner(text)}, true
}

// parseTimeLine reads "HH:MM:SS,mmm --> HH:MM:SS,mmm" with optional VTT cue
// settings after the end time. Dot millis and MM:SS forms are accepted
func parseTimeLine(line string) (start, end float64, ok bool) {
	parts := strings.SplitN(line, "-->", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseClock(strings.TrimSpace(parts[0]))
	if !ok {
		return 0, 0, false
	}
	// cue settings (align:, position:) trail the end time in VTT
	endTok := strings.TrimSpace(parts[1])
	if i := strings.IndexAny(endTok, " \t"); i >= 0 {
		endTok = endTok[:i]
	}
	end, ok = parseClock(endTok)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// parseClock reads HH:MM:SS(,|.)mmm or MM:SS(,|.)mmm into seconds
func parseClock(tok string) (float64, bool) {
	tok = strings.ReplaceAll(tok, ",", ".")
	fields := strings.Split(tok, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, false
	}

	sec, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil || sec < 0 {
		return 0, false
	}
	mins, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil || mins < 0 {
		return 0, false
	}
	hours := 0
	if len(fields) == 3 {
		hours, err = strconv.Atoi(fields[0])
		if err != nil || hours < 0 {
			return 0, false
		}
	}
	return float64(hours)*3600 + float64(mins)*60 + sec, true
}

// collapseInner squeezes whitespace runs inside joined cue text
func collapseInner(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
