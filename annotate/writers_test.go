package annotate

import (
	"encoding/xml"
	"strings"
	"testing"
)

func buildDoc(t *testing.T) *Document {
	t.Helper()

	cycles := NewTier("cycles")
	err := cycles.AddAll(
		Interval{Start: 0, End: 1.2, Label: "in"},
		Interval{Start: 1.2, End: 2.5, Label: "out"},
	)
	if err != nil {
		t.Fatal(err)
	}

	holds := NewTier("holds")
	if err := holds.Add(Interval{Start: 0.5, End: 1, Label: "hold"}); err != nil {
		t.Fatal(err)
	}

	doc := &Document{}
	doc.AddTier(cycles)
	doc.AddTier(holds)
	return doc
}

func TestWriteTextGrid_Short(t *testing.T) {
	doc := buildDoc(t)

	var b strings.Builder
	if err := WriteTextGrid(&b, doc, TextGridShort); err != nil {
		t.Fatal(err)
	}

	want := `File type = "ooTextFile"
Object class = "TextGrid"

0
2.5
<exists>
2
"IntervalTier"
"cycles"
0
2.5
2
0
1.2
"in"
1.2
2.5
"out"
"IntervalTier"
"holds"
0
2.5
3
0
0.5
""
0.5
1
"hold"
1
2.5
""
`
	if got := b.String(); got != want {
		t.Errorf("short TextGrid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteTextGrid_Long(t *testing.T) {
	cycles := NewTier("cycles")
	if err := cycles.Add(Interval{Start: 0, End: 2, Label: "in"}); err != nil {
		t.Fatal(err)
	}
	doc := &Document{}
	doc.AddTier(cycles)

	var b strings.Builder
	if err := WriteTextGrid(&b, doc, TextGridLong); err != nil {
		t.Fatal(err)
	}

	want := "File type = \"ooTextFile\"\n" +
		"Object class = \"TextGrid\"\n\n" +
		"xmin = 0\n" +
		"xmax = 2\n" +
		"tiers? <exists>\n" +
		"size = 1\n" +
		"item []:\n" +
		"\titem [1]:\n" +
		"\t\tclass = \"IntervalTier\"\n" +
		"\t\tname = \"cycles\"\n" +
		"\t\txmin = 0\n" +
		"\t\txmax = 2\n" +
		"\t\tintervals: size = 1\n" +
		"\t\tintervals [1]:\n" +
		"\t\t\txmin = 0\n" +
		"\t\t\txmax = 2\n" +
		"\t\t\ttext = \"in\"\n"

	if got := b.String(); got != want {
		t.Errorf("long TextGrid mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteTextGrid_UnknownFormat(t *testing.T) {
	var b strings.Builder
	if err := WriteTextGrid(&b, &Document{}, TextGridFormat(7)); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteEAF(t *testing.T) {
	doc := buildDoc(t)

	var b strings.Builder
	if err := WriteEAF(&b, doc); err != nil {
		t.Fatal(err)
	}

	var parsed eafDocument
	if err := xml.Unmarshal([]byte(b.String()), &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}

	if len(parsed.Tiers) != 2 {
		t.Fatalf("got %d tiers, want 2", len(parsed.Tiers))
	}
	if parsed.Tiers[0].TierID != "cycles" || parsed.Tiers[1].TierID != "holds" {
		t.Errorf("tier IDs: got %q and %q", parsed.Tiers[0].TierID, parsed.Tiers[1].TierID)
	}

	// Two cycle intervals plus one hold: six time slots, three annotations.
	if len(parsed.TimeOrder.TimeSlots) != 6 {
		t.Errorf("got %d time slots, want 6", len(parsed.TimeOrder.TimeSlots))
	}
	if got := parsed.TimeOrder.TimeSlots[1].Value; got != 1200 {
		t.Errorf("first cycle end: got %d ms, want 1200", got)
	}

	ann := parsed.Tiers[0].Annotations
	if len(ann) != 2 {
		t.Fatalf("got %d cycle annotations, want 2", len(ann))
	}
	if ann[0].Alignable.Value != "in" || ann[1].Alignable.Value != "out" {
		t.Errorf("annotation labels: got %q and %q",
			ann[0].Alignable.Value, ann[1].Alignable.Value)
	}
	if ann[0].Alignable.SlotRef1 != "ts1" || ann[0].Alignable.SlotRef2 != "ts2" {
		t.Errorf("slot refs: got %q and %q",
			ann[0].Alignable.SlotRef1, ann[0].Alignable.SlotRef2)
	}
}

func TestWriteTable(t *testing.T) {
	doc := buildDoc(t)

	var b strings.Builder
	if err := WriteTable(&b, doc); err != nil {
		t.Fatal(err)
	}

	want := "tier,label,start,end\n" +
		"cycles,in,0,1.2\n" +
		"cycles,out,1.2,2.5\n" +
		"holds,hold,0.5,1\n"
	if got := b.String(); got != want {
		t.Errorf("table mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
