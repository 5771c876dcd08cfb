package flutter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		widget string
		class  Class
		known  bool
	}{
		{"Icon", Visual, true},
		{"Image.asset", Visual, true},
		{"CircleAvatar", Visual, true},
		{"IconButton", Interactive, true},
		{"ElevatedButton.icon", Interactive, true},
		{"TextField", Input, true},
		{"TextFormField", Input, true},
		{"Container", 0, false},
		{"Text", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.widget, func(t *testing.T) {
			c, ok := ClassOf(tt.widget)

			assert.Equal(t, tt.known, ok)
			if tt.known {
				assert.Equal(t, tt.class, c)
			}
		})
	}
}

func TestElement_Label(t *testing.T) {
	el := Element{
		Tooltip: "Open settings",
		Props:   map[string]string{"labelText": "Email"},
	}

	assert.Equal(t, "Open settings", el.Label(), "tooltip outranks decoration text")

	el.SemanticLabel = "Settings"
	assert.Equal(t, "Settings", el.Label())

	assert.Empty(t, Element{Widget: "Icon"}.Label())
}

func TestElement_Labeled(t *testing.T) {
	tests := []struct {
		name    string
		el      Element
		labeled bool
	}{
		{"semantic label", Element{SemanticLabel: "Back"}, true},
		{"tooltip", Element{Tooltip: "Open settings"}, true},
		{"label text", Element{Props: map[string]string{"labelText": "Email"}}, true},
		{"hint text", Element{Props: map[string]string{"hintText": "Search"}}, true},
		{"bare", Element{Widget: "Icon"}, false},
		{"empty strings", Element{SemanticLabel: "", Props: map[string]string{"labelText": ""}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.labeled, tt.el.Labeled())
		})
	}
}
