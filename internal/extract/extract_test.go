package extract

import (
	"reflect"
	"testing"
)

func TestWikiLinks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "see [[Alpha]] and [[Beta]]", []string{"Alpha", "Beta"}},
		{"alias stripped", "see [[Alpha|the alpha note]]", []string{"Alpha"}},
		{"heading stripped", "see [[Alpha#Intro]]", []string{"Alpha"}},
		{"deduplicated", "[[Alpha]] then [[Alpha]] again", []string{"Alpha"}},
		{"empty target skipped", "[[ ]] and [[Real]]", []string{"Real"}},
		{"none", "no links here", nil},
		{"spaces in target", "[[Project Notes]]", []string{"Project Notes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WikiLinks(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WikiLinks(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "work on #project today", []string{"project"}},
		{"nested", "#project/alpha is live", []string{"project/alpha"}},
		{"start of line", "#inbox first", []string{"inbox"}},
		{"deduplicated", "#a then #a", []string{"a"}},
		{"heading is not a tag", "# Title\nbody #real", []string{"real"}},
		{"mid-word hash ignored", "see example#anchor", nil},
		{"unicode", "tagged #café", []string{"café"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tags(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
