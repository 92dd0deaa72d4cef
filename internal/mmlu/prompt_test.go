package mmlu

import (
	"strings"
	"testing"
)

func TestFormatQuestion(t *testing.T) {
	got := FormatQuestion("1+1=?", map[string]string{
		"A": "1", "B": "2", "C": "3", "D": "4",
	})

	want := "1+1=?\n\nA. 1\nB. 2\nC. 3\nD. 4\n\n" + answerInstruction
	if got != want {
		t.Fatalf("FormatQuestion:\ngot  %q\nwant %q", got, want)
	}
}

func TestFormatQuestion_OptionOrder(t *testing.T) {
	got := FormatQuestion("q", map[string]string{
		"D": "four", "B": "two", "A": "one", "C": "three",
	})

	idxA := strings.Index(got, "A. one")
	idxB := strings.Index(got, "B. two")
	idxC := strings.Index(got, "C. three")
	idxD := strings.Index(got, "D. four")
	if idxA < 0 || idxB < 0 || idxC < 0 || idxD < 0 {
		t.Fatalf("missing option lines:\n%s", got)
	}
	if !(idxA < idxB && idxB < idxC && idxC < idxD) {
		t.Fatalf("options out of order:\n%s", got)
	}
}

func TestFormatQuestion_MissingLabels(t *testing.T) {
	got := FormatQuestion("q", map[string]string{"A": "yes", "B": "no"})

	if strings.Contains(got, "C.") || strings.Contains(got, "D.") {
		t.Fatalf("rendered absent labels:\n%s", got)
	}
	if !strings.Contains(got, "A. yes") || !strings.Contains(got, "B. no") {
		t.Fatalf("missing present labels:\n%s", got)
	}
	if !strings.HasSuffix(got, answerInstruction) {
		t.Fatalf("missing instruction line:\n%s", got)
	}
}
