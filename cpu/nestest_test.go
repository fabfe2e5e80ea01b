package cpu_test

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/go6502/nescore/bus"
	"github.com/go6502/nescore/cpu"
	"github.com/go6502/nescore/rom"
)

// TestNestest drives the automated-mode nestest ROM against the reference
// nestest.log trace, the end-to-end scenario spec.md §8 names as A2.
// nestest.nes/nestest.log aren't redistributed in this repo (like the
// teacher's own cpu_test.go TestROMs case, which reads them from a local
// path rather than embedding them); the test skips when they aren't
// present under testdata/.
func TestNestest(t *testing.T) {
	romBytes, err := os.ReadFile("testdata/nestest.nes")
	if err != nil {
		t.Skip("testdata/nestest.nes not present, skipping nestest trace comparison")
	}
	logFile, err := os.Open("testdata/nestest.log")
	if err != nil {
		t.Skip("testdata/nestest.log not present, skipping nestest trace comparison")
	}
	defer logFile.Close()

	image, err := rom.Load(romBytes)
	require.NoError(t, err)
	require.True(t, image.Supported(), "nestest.nes must use mapper 0 (NROM)")

	b := bus.New()
	b.LoadROM(image)
	c := cpu.NewChip(b, nil, nil)
	c.PowerOn()
	// nestest's automated mode starts execution at $C000 rather than the
	// reset vector, and the log's first line shows P=$24 (I set, unused
	// bit set) rather than the Reset()-only FlagBreak state, since the
	// harness seeds registers directly instead of calling Reset().
	c.Reg.PC = 0xC000
	c.Reg.P = 0x24
	c.Reg.SP = 0xFD

	scanner := bufio.NewScanner(logFile)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		want := scanner.Text()
		if len(want) < 73 {
			continue
		}

		wantPC, err := strconv.ParseUint(want[0:4], 16, 16)
		require.NoError(t, err)
		wantA, err := strconv.ParseUint(strings.TrimSpace(want[50:52]), 16, 8)
		require.NoError(t, err)
		wantX, err := strconv.ParseUint(strings.TrimSpace(want[55:57]), 16, 8)
		require.NoError(t, err)
		wantY, err := strconv.ParseUint(strings.TrimSpace(want[60:62]), 16, 8)
		require.NoError(t, err)
		wantP, err := strconv.ParseUint(strings.TrimSpace(want[65:67]), 16, 8)
		require.NoError(t, err)
		wantSP, err := strconv.ParseUint(strings.TrimSpace(want[71:73]), 16, 8)
		require.NoError(t, err)

		if uint16(wantPC) != c.Reg.PC || uint8(wantA) != c.Reg.A || uint8(wantX) != c.Reg.X ||
			uint8(wantY) != c.Reg.Y || uint8(wantP) != c.Reg.P || uint8(wantSP) != c.Reg.SP {
			t.Fatalf("line %d: mismatch\n  want: %s\n  got:  %s\nchip state: %s",
				lineNo, want, c.TraceLine(), spew.Sdump(c.Reg))
		}

		if _, err := c.Step(); err != nil {
			t.Fatalf("line %d: %v\nchip state: %s", lineNo, err, spew.Sdump(c.Reg))
		}
	}
	require.NoError(t, scanner.Err())
	fmt.Printf("compared %d trace lines\n", lineNo)
}
