package inet

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func addr6Gen() *rapid.Generator[Addr6] {
	return rapid.Custom(func(t *rapid.T) Addr6 {
		b := rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "bytes")
		// Bias towards zero runs and the IPv4-embedded prefixes.
		switch rapid.IntRange(0, 3).Draw(t, "shape") {
		case 1:
			start := rapid.IntRange(0, 15).Draw(t, "zeroStart")
			end := rapid.IntRange(start, 16).Draw(t, "zeroEnd")
			clear(b[start:end])
		case 2:
			clear(b[:12])
		case 3:
			clear(b[:10])
			b[10], b[11] = 0xff, 0xff
		}
		return Addr6(b)
	})
}

func TestAddr6_TextRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := addr6Gen().Draw(t, "addr")
		text := a.String()
		back, err := ParseAddr6([]byte(text))
		if err != nil {
			t.Fatalf("ParseAddr6(%q) for %x: %v", text, a[:], err)
		}
		if back != a {
			t.Fatalf("round trip of %x through %q gave %x", a[:], text, back[:])
		}
		if strings.Count(text, "::") > 1 {
			t.Fatalf("%q has more than one gap", text)
		}
		if text != back.String() {
			t.Fatalf("canonical form %q is not a fixpoint", text)
		}
	})
}

func TestAddr6_LongFormDecodes_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := addr6Gen().Draw(t, "addr")
		upper := rapid.Bool().Draw(t, "upper")

		var sb strings.Builder
		for i := range numWords {
			if i > 0 {
				sb.WriteByte(':')
			}
			width := rapid.IntRange(1, 4).Draw(t, "width")
			group := fmt.Sprintf("%0*x", width, a.word(i))
			if upper {
				group = strings.ToUpper(group)
			}
			sb.WriteString(group)
		}
		text := sb.String()

		back, err := ParseAddr6([]byte(text))
		if err != nil {
			t.Fatalf("ParseAddr6(%q): %v", text, err)
		}
		if back != a {
			t.Fatalf("%q decoded to %x, want %x", text, back[:], a[:])
		}
	})
}

func TestAddr6_Compare_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := addr6Gen().Draw(t, "a")
		b := addr6Gen().Draw(t, "b")

		got := a.Compare(b)
		if want := bytes.Compare(a[:], b[:]); got != want {
			t.Fatalf("Compare(%x, %x) = %d, want %d", a[:], b[:], got, want)
		}
		if b.Compare(a) != -got {
			t.Fatalf("Compare is not antisymmetric for %x and %x", a[:], b[:])
		}
		if (got == 0) != (a == b) {
			t.Fatalf("Compare and == disagree for %x and %x", a[:], b[:])
		}
	})
}

func TestAddr4_TextRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Addr4FromUint32(rapid.Uint32().Draw(t, "n"))
		text := a.String()
		back, err := ParseAddr4([]byte(text))
		if err != nil {
			t.Fatalf("ParseAddr4(%q): %v", text, err)
		}
		if back != a {
			t.Fatalf("round trip of %v gave %v", a, back)
		}
	})
}

func TestLegacy_RoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint32().Draw(t, "n")
		a, ok := InetNtoa(uint64(n))
		if !ok {
			t.Fatalf("InetNtoa(%d) failed", n)
		}
		back, ok := InetAton([]byte(a.String()))
		if !ok || back != n {
			t.Fatalf("InetAton(%q) = %d, %v; want %d", a.String(), back, ok, n)
		}
	})
}

func TestLegacy_AcceptsShortForms_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		groups := rapid.SliceOfN(rapid.IntRange(0, 255), 1, 4).Draw(t, "groups")
		parts := make([]string, len(groups))
		for i, g := range groups {
			parts[i] = fmt.Sprint(g)
		}
		text := strings.Join(parts, ".")

		n, ok := InetAton([]byte(text))
		if !ok {
			t.Fatalf("InetAton(%q) rejected", text)
		}
		last := uint32(groups[len(groups)-1])
		if n&0xff != last {
			t.Fatalf("InetAton(%q) = %#x, low byte should be %d", text, n, last)
		}
		if len(groups) > 1 && n>>24 != uint32(groups[0]) {
			t.Fatalf("InetAton(%q) = %#x, high byte should be %d", text, n, groups[0])
		}
	})
}
