package models

import (
	"encoding/json"
	"regexp"
	"testing"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestArticleID(t *testing.T) {
	const url = "https://news.example.com/a?id=1"

	id := ArticleID(url)
	if !hexID.MatchString(id) {
		t.Fatalf("ArticleID() = %q, want 64 hex chars", id)
	}
	if got := ArticleID("  " + url + "\n"); got != id {
		t.Errorf("surrounding whitespace changed the id: %q != %q", got, id)
	}

	for _, other := range []string{
		"https://news.example.com/a?id=2",
		"http://news.example.com/a?id=1",
		"https://NEWS.example.com/a?id=1",
	} {
		if ArticleID(other) == id {
			t.Errorf("ArticleID(%q) collides with %q", other, url)
		}
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	type patch struct {
		Score Field[float64] `json:"score"`
		Label Field[string]  `json:"label"`
	}

	tests := []struct {
		name      string
		body      string
		wantScore Field[float64]
		wantLabel Field[string]
	}{
		{"omitted", `{}`, Field[float64]{}, Field[string]{}},
		{"null", `{"score":null,"label":null}`, Null[float64](), Null[string]()},
		{"values", `{"score":0.5,"label":"Bullish"}`, Some(0.5), Some("Bullish")},
		{"mixed", `{"label":"Neutral"}`, Field[float64]{}, Some("Neutral")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Score != tt.wantScore {
				t.Errorf("score = %+v, want %+v", p.Score, tt.wantScore)
			}
			if p.Label != tt.wantLabel {
				t.Errorf("label = %+v, want %+v", p.Label, tt.wantLabel)
			}
		})
	}
}

func TestField_RejectsWrongType(t *testing.T) {
	var f Field[float64]
	if err := json.Unmarshal([]byte(`"high"`), &f); err == nil {
		t.Error("expected error for string into numeric field")
	}
}

func TestField_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Field[int] `json:"a"`
		B Field[int] `json:"b"`
		C Field[int] `json:"c"`
	}{A: Some(3), B: Null[int]()})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(out); got != `{"a":3,"b":null,"c":null}` {
		t.Errorf("Marshal() = %s", got)
	}
}

func TestTickerType_Valid(t *testing.T) {
	for _, tt := range []struct {
		in   TickerType
		want bool
	}{
		{TickerTypeStock, true},
		{TickerTypeCrypto, true},
		{"bond", false},
		{"", false},
	} {
		if got := tt.in.Valid(); got != tt.want {
			t.Errorf("%q.Valid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
