package flutter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeScreen = `import 'package:flutter/material.dart';

class HomeScreen extends StatelessWidget {
  const HomeScreen({super.key});

  @override
  Widget build(BuildContext context) {
    return Scaffold(
      appBar: AppBar(
        title: Text('Home'),
        actions: [
          IconButton(
            key: Key('settings_button'),
            icon: Icon(Icons.settings),
            tooltip: 'Open settings',
            onPressed: () {},
          ),
        ],
      ),
      body: Column(
        children: [
          Image.asset('assets/logo.png'),
          Semantics(
            label: 'Company logo',
            child: Image.network('https://example.com/logo.png'),
          ),
          TextField(
            decoration: InputDecoration(labelText: 'Email'),
          ),
          GestureDetector(
            onTap: () {},
            child: Icon(Icons.favorite),
          ),
        ],
      ),
    );
  }
}
`

func TestScanSource(t *testing.T) {
	elements := ScanSource("lib/home_screen.dart", []byte(homeScreen))

	widgets := make([]string, 0, len(elements))
	for _, el := range elements {
		widgets = append(widgets, el.Widget)
	}
	require.Equal(t, []string{
		"IconButton", "Icon", "Image.asset", "Image.network",
		"TextField", "GestureDetector", "Icon",
	}, widgets)

	button := elements[0]
	assert.Equal(t, "lib/home_screen.dart", button.File)
	assert.Equal(t, 12, button.Line)
	assert.Equal(t, "settings_button", button.ResourceID)
	assert.Equal(t, "Open settings", button.Tooltip)
	assert.True(t, button.Clickable)
	assert.True(t, button.Labeled())
	assert.Equal(t, []string{"AppBar", "Scaffold"}, button.Parents)

	gear := elements[1]
	assert.False(t, gear.Clickable)
	assert.False(t, gear.Labeled())
	require.NotEmpty(t, gear.Parents)
	assert.Equal(t, "IconButton", gear.Parents[0])

	logo := elements[2]
	assert.Equal(t, 22, logo.Line)
	assert.False(t, logo.Labeled())

	network := elements[3]
	assert.Equal(t, "Company logo", network.SemanticLabel)
	assert.True(t, network.Labeled())
	require.NotEmpty(t, network.Parents)
	assert.Equal(t, "Semantics", network.Parents[0])

	field := elements[4]
	assert.Equal(t, "Email", field.Props["labelText"])
	assert.True(t, field.Labeled())

	detector := elements[5]
	assert.True(t, detector.Clickable)

	favorite := elements[6]
	require.NotEmpty(t, favorite.Parents)
	assert.Equal(t, "GestureDetector", favorite.Parents[0])
}

func TestScanSource_SemanticLabelProp(t *testing.T) {
	src := `final w = Icon(Icons.add, semanticLabel: 'Add item');`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "Add item", elements[0].SemanticLabel)
	assert.Equal(t, "w", elements[0].ResourceID)
}

func TestScanSource_StringsAndComments(t *testing.T) {
	src := `// IconButton(tooltip: 'not real')
final label = 'Icon(';
/* Image.network('x') */
final banner = Image.asset('a ) tricky.png');
`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "Image.asset", elements[0].Widget)
	assert.Equal(t, 4, elements[0].Line)
	assert.Equal(t, "banner", elements[0].ResourceID)
}

func TestScanSource_EscapedQuotes(t *testing.T) {
	src := `final b = GestureDetector(onTap: open, child: Text('Don\'t stop'));`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "Don't stop", elements[0].Text)
	assert.True(t, elements[0].Clickable)
}

func TestScanSource_HintText(t *testing.T) {
	src := `TextFormField(
  decoration: const InputDecoration(hintText: "Search products"),
)`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "Search products", elements[0].Props["hintText"])
	assert.True(t, elements[0].Labeled())
}

func TestScanSource_ClickableByHandlerProp(t *testing.T) {
	// Not an interactive class, but an onTap handler makes it clickable.
	src := `Semantics(onTap: handle, child: x); CircleAvatar(onTap: open)`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "CircleAvatar", elements[0].Widget)
	assert.True(t, elements[0].Clickable)
}

func TestScanSource_NoElements(t *testing.T) {
	src := `void main() { print('hello'); }`

	assert.Empty(t, ScanSource("a.dart", []byte(src)))
}

func TestScanSource_UnbalancedSource(t *testing.T) {
	// Truncated file: the open span runs to EOF instead of panicking.
	src := `IconButton(tooltip: 'Close', onPressed: () {`

	elements := ScanSource("a.dart", []byte(src))

	require.Len(t, elements, 1)
	assert.Equal(t, "Close", elements[0].Tooltip)
}
