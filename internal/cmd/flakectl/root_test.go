package flakectl

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"

	"github.com/shandysiswandi/flaken/internal/pkg/pkguid"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRoot()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("flakectl %v: %v", args, err)
	}
	return out
}

func TestNextPrintsDistinctIDs(t *testing.T) {
	lines := strings.Fields(mustRun(t, "next", "--identifier", "9", "--count", "5"))
	if len(lines) != 5 {
		t.Fatalf("expected 5 ids, got %d", len(lines))
	}

	seen := make(map[string]struct{})
	for _, line := range lines {
		id, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			t.Fatalf("expected decimal id, got %q", line)
		}
		if got := (id >> 12) & 0x3FF; got != 9 {
			t.Fatalf("expected identifier 9 in %d, got %d", id, got)
		}
		seen[line] = struct{}{}
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct ids, got %d", len(seen))
	}
}

func TestNextRejectsBadInput(t *testing.T) {
	if _, err := run(t, "next", "--count", "0"); err == nil {
		t.Fatalf("expected error for zero count")
	}

	if _, err := run(t, "next", "--identifier", "1024"); !errors.Is(err, pkguid.ErrIdentifierRange) {
		t.Fatalf("expected ErrIdentifierRange, got %v", err)
	}

	_, err := run(t, "next", "--timestamp-bits", "60", "--identifier-bits", "4")
	if !errors.Is(err, pkguid.ErrInvalidBitwidths) {
		t.Fatalf("expected ErrInvalidBitwidths, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := strconv.FormatUint(pkguid.DefaultEpoch+1, 10)
	if got := mustRun(t, "encode", "--timestamp", ts, "--identifier", "1", "--sequence", "1"); got != "4198401\n" {
		t.Fatalf("unexpected encode output: %q", got)
	}

	want := "id=4198401 timestamp=1356998400001 time=2013-01-01T00:00:00.001Z identifier=1 sequence=1\n"
	if got := mustRun(t, "decode", "4198401"); got != want {
		t.Fatalf("unexpected decode output:\n got %q\nwant %q", got, want)
	}
}

func TestEncodeAcceptsRFC3339(t *testing.T) {
	got := mustRun(t, "encode", "--timestamp", "2013-01-01T00:00:00.001Z", "--identifier", "1", "--sequence", "1")
	if got != "4198401\n" {
		t.Fatalf("unexpected encode output: %q", got)
	}
}

func TestEncodeBeforeEpoch(t *testing.T) {
	if _, err := run(t, "encode", "--timestamp", "1"); !errors.Is(err, pkguid.ErrBeforeEpoch) {
		t.Fatalf("expected ErrBeforeEpoch, got %v", err)
	}

	if _, err := run(t, "encode"); err == nil {
		t.Fatalf("expected error without --timestamp")
	}
}

func TestDecodeMatchesBwmarrin(t *testing.T) {
	node, err := snowflake.NewNode(17)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	id := node.Generate()

	out := mustRun(t, "--epoch", strconv.FormatInt(snowflake.Epoch, 10), "decode", id.String())
	for _, want := range []string{
		"timestamp=" + strconv.FormatInt(id.Time(), 10),
		"identifier=17",
		"sequence=" + strconv.FormatInt(id.Step(), 10),
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}

	if _, err := run(t, "decode", "not-a-number"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}

func TestLayoutPrintsMasks(t *testing.T) {
	out := mustRun(t, "layout", "--timestamp-bits", "41", "--identifier-bits", "12")

	for _, want := range []string{"2013-01-01T00:00:00Z", "0x00000000007ff800", "max 4095", "max 2047"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in layout output:\n%s", want, out)
		}
	}
}
