// File path: internal/diagnosis/encoder_test.go
package diagnosis

import (
	"reflect"
	"testing"
)

func TestEncoderFitStableColumnOrder(t *testing.T) {
	e := &SymptomEncoder{}
	e.Fit([][]string{
		{"fever", "cough"},
		{"headache", "fever"},
		{"chills"},
	})
	want := []string{"chills", "cough", "fever", "headache"}
	if !reflect.DeepEqual(e.Classes, want) {
		t.Fatalf("Classes = %v, want %v", e.Classes, want)
	}
}

func TestEncoderTransform(t *testing.T) {
	e := &SymptomEncoder{}
	e.Fit([][]string{{"chills", "cough", "fever", "headache"}})
	got := e.Transform([]string{"fever", "chills"})
	want := []float64{1, 0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Transform = %v, want %v", got, want)
	}
}

func TestEncoderTransformDropsUnknown(t *testing.T) {
	e := &SymptomEncoder{}
	e.Fit([][]string{{"fever"}})
	got := e.Transform([]string{"fever", "levitation"})
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Transform = %v, want exactly the fitted column", got)
	}
}

func TestEncoderKnown(t *testing.T) {
	e := &SymptomEncoder{}
	e.Fit([][]string{{"fever", "cough"}})
	got := e.Known([]string{"cough", "levitation", "fever"})
	want := []string{"cough", "fever"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Known = %v, want %v", got, want)
	}
	if got := e.Known([]string{"levitation"}); len(got) != 0 {
		t.Fatalf("Known = %v, want empty", got)
	}
}
