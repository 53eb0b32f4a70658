package executor_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/executor"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
	"github.com/specialistvlad/ftdgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personDocument = `-- record person:
caption name:
body bio:

-- person list people:

--- person: A

ab

--- person: B

cd

-- component person-row:
root: ftd.row
caption name:
body bio:

--- ftd.text: $name

--- ftd.text: $bio
`

const togglerComponent = `-- component toggler:
boolean $open: true

--- ftd.text: click
$event-click$: toggle $open

--- ftd.text: hi
if: $open
`

func render(t *testing.T, source string, docs map[string]string) *executor.Result {
	t.Helper()
	res := testutil.Render(t, source, &testutil.Library{Docs: docs})
	require.NoError(t, res.Err)
	return res.Result
}

func child[T executor.Element](t *testing.T, parent executor.Element, i int) T {
	t.Helper()
	c, ok := executor.ContainerOf(parent)
	require.True(t, ok, "%s is not a container", parent.Type())
	require.Greater(t, len(c.Children), i)
	el, ok := c.Children[i].(T)
	require.True(t, ok, "child %d is a %s", i, c.Children[i].Type())
	return el
}

func TestExecute_IntegerReference(t *testing.T) {
	res := render(t, "-- $x: 10\n\n-- ftd.integer:\nvalue: $x\n", nil)

	require.Len(t, res.Main.Children, 1)
	n := child[*executor.Integer](t, res.Main, 0)
	assert.Equal(t, "10", n.Text)
	assert.Equal(t, int64(10), n.Value.Value)
	assert.Equal(t, "main#x", n.Value.Reference)
	assert.Equal(t, "0", n.DataID)
}

func TestExecute_ConditionalVisibility(t *testing.T) {
	res := render(t, `-- $p: true

-- ftd.text: hello
if: $p

-- ftd.text: world
if: not $p
`, nil)

	require.Len(t, res.Main.Children, 2)
	hello := child[*executor.Text](t, res.Main, 0)
	world := child[*executor.Text](t, res.Main, 1)

	assert.Equal(t, "hello", hello.Text.Value)
	assert.False(t, hello.IsNotVisible)
	require.NotNil(t, hello.Condition, "conditions on mutable state are kept for the renderer")

	assert.Equal(t, "world", world.Text.Value)
	assert.True(t, world.IsNotVisible)
	require.NotNil(t, world.Condition)
}

func TestExecute_StaticConditionKeepsIndices(t *testing.T) {
	res := render(t, `-- boolean flag: false

-- ftd.text: gone
if: $flag

-- ftd.text: kept
`, nil)

	require.Len(t, res.Main.Children, 2)
	null := child[*executor.Null](t, res.Main, 0)
	assert.Equal(t, "0", null.DataID)
	kept := child[*executor.Text](t, res.Main, 1)
	assert.Equal(t, "1", kept.DataID)
}

func TestExecute_ComponentLoop(t *testing.T) {
	res := render(t, personDocument+`
-- person-row: $obj.name
$loop$: $people as $obj

$obj.bio
`, nil)

	require.Len(t, res.Main.Children, 2)
	for i, want := range [][2]string{{"A", "ab"}, {"B", "cd"}} {
		row := child[*executor.Row](t, res.Main, i)
		require.Len(t, row.Children, 2)
		assert.Equal(t, want[0], child[*executor.Text](t, row, 0).Text.Value)
		assert.Equal(t, want[1], child[*executor.Text](t, row, 1).Text.Value)
	}
	assert.Equal(t, "1,0", child[*executor.Text](t, child[*executor.Row](t, res.Main, 1), 0).DataID)
	assert.Empty(t, res.Dummies, "immutable lists never grow")
}

func TestExecute_LoopOverMutableListRecordsDummy(t *testing.T) {
	source := personDocument + `
-- person list $members:

--- person: C

ef

-- person-row: $m.name
$loop$: $members as $m

$m.bio
`
	res := render(t, source, nil)

	require.Len(t, res.Main.Children, 1)
	require.Len(t, res.Dummies["main"], 1)
	dummy := res.Dummies["main"][0]
	assert.Equal(t, "main#members", dummy.List)
	assert.Equal(t, "m", dummy.Alias)
	assert.Equal(t, 0, dummy.Start)
	require.NotNil(t, dummy.Template)
	assert.Equal(t, "main#person-row", dummy.Template.Root)
	assert.Equal(t, "main:dummy", dummy.Template.DataID)
	require.NotEmpty(t, dummy.Template.Properties)
	assert.Equal(t, interpreter.PropertyVariable, dummy.Template.Properties[0].Value.Type)
	assert.Equal(t, "m.name", dummy.Template.Properties[0].Value.Name)
}

func TestExecute_OpenSlotExternalChildren(t *testing.T) {
	res := render(t, `-- component foo:
open: slot

--- ftd.row:

--- ftd.row:
id: slot

-- foo:

--- ftd.text: hello

--- ftd.text: world

-- container: slot

-- ftd.text: later

-- container: ftd.main

-- ftd.text: end
`, nil)

	require.Len(t, res.Main.Children, 2)
	foo := child[*executor.Column](t, res.Main, 0)
	require.Len(t, foo.Children, 2, "external children do not shift the definition body")

	slot := child[*executor.Row](t, foo, 1)
	assert.Equal(t, "slot", slot.DataID)
	assert.True(t, slot.IsSlot)
	require.Len(t, slot.Children, 2)

	wrapper := child[*executor.Column](t, slot, 0)
	assert.Equal(t, "slot:0", wrapper.DataID)
	hello := child[*executor.Text](t, wrapper, 0)
	world := child[*executor.Text](t, wrapper, 1)
	assert.Equal(t, "hello", hello.Text.Value)
	assert.Equal(t, "slot:0,0", hello.DataID)
	assert.Equal(t, "world", world.Text.Value)
	assert.Equal(t, "slot:0,1", world.DataID)

	later := child[*executor.Text](t, slot, 1)
	assert.Equal(t, "later", later.Text.Value)
	assert.Equal(t, "slot:1", later.DataID)

	require.NotNil(t, foo.External)
	assert.Equal(t, "slot", foo.External.Slot)
	assert.Equal(t, []string{"1"}, foo.External.Paths)
	assert.Equal(t, []string{"slot:0"}, foo.External.ChildIDs)
	assert.False(t, foo.External.Unsatisfied)

	end := child[*executor.Text](t, res.Main, 1)
	assert.Equal(t, "end", end.Text.Value)
	assert.Equal(t, "1", end.DataID)
}

func TestExecute_MissingSlotIsRecorded(t *testing.T) {
	res := testutil.Render(t, `-- component foo:
open: nowhere

--- ftd.text: body

-- foo:

--- ftd.text: extra
`, nil)
	require.NoError(t, res.Err)

	foo := child[*executor.Column](t, res.Result.Main, 0)
	require.Len(t, foo.Children, 1)
	require.NotNil(t, foo.External)
	assert.True(t, foo.External.Unsatisfied)
	assert.Equal(t, []string{"0:external"}, foo.External.ChildIDs)
	assert.Contains(t, res.LogOutput, "open slot missing")
}

func TestExecute_ChildrenWithoutSlotAppend(t *testing.T) {
	res := render(t, `-- component card:

--- ftd.text: title

-- card:

--- ftd.text: extra
`, nil)

	card := child[*executor.Column](t, res.Main, 0)
	require.Len(t, card.Children, 2)
	assert.Equal(t, "extra", child[*executor.Text](t, card, 1).Text.Value)
	assert.Equal(t, "0,1", card.Children[1].GetCommon().DataID)
	assert.Nil(t, card.External)
}

func TestExecute_EventOnLocal(t *testing.T) {
	res := render(t, togglerComponent+"\n-- toggler:\n", nil)

	toggler := child[*executor.Column](t, res.Main, 0)
	click := child[*executor.Text](t, toggler, 0)
	require.Len(t, click.Events, 1)
	assert.Equal(t, "click", click.Events[0].Name)
	assert.Equal(t, interpreter.ActionToggle, click.Events[0].Action)
	assert.Equal(t, "@open@0", click.Events[0].Target)

	hi := child[*executor.Text](t, toggler, 1)
	assert.Equal(t, "hi", hi.Text.Value)
	assert.False(t, hi.IsNotVisible)
	require.NotNil(t, hi.Condition)
	assert.Equal(t, "@open@0", hi.Condition.Left.Name)

	require.Contains(t, res.Locals, "@open@0")
	assert.True(t, res.Locals["@open@0"].Boolean)
}

func TestExecute_LocalsAreKeyedByInstance(t *testing.T) {
	res := render(t, togglerComponent+`
-- toggler:
id: first

-- toggler:
$open: false
`, nil)

	first := child[*executor.Column](t, res.Main, 0)
	assert.Equal(t, "first", first.DataID)
	assert.Equal(t, "first:0", first.Children[0].GetCommon().DataID)
	assert.Equal(t, "@open@first", child[*executor.Text](t, first, 0).Events[0].Target)

	second := child[*executor.Column](t, res.Main, 1)
	hi := child[*executor.Text](t, second, 1)
	assert.True(t, hi.IsNotVisible)

	assert.True(t, res.Locals["@open@first"].Boolean)
	assert.False(t, res.Locals["@open@1"].Boolean)
}

func TestExecute_MutableArgumentBoundToVariable(t *testing.T) {
	res := render(t, "-- boolean $shown: false\n\n"+togglerComponent+"\n-- toggler:\n$open: $shown\n", nil)

	toggler := child[*executor.Column](t, res.Main, 0)
	assert.Equal(t, "main#shown", child[*executor.Text](t, toggler, 0).Events[0].Target)
	assert.True(t, child[*executor.Text](t, toggler, 1).IsNotVisible)
	assert.Empty(t, res.Locals)
}

func TestExecute_ImportAlias(t *testing.T) {
	greet := `-- string msg: Hello from greet

-- component hello:

--- ftd.text: $msg

-- ftd.text: not part of the importer
`
	res := testutil.Render(t, "-- import: greet as g\n\n-- g.hello:\n", &testutil.Library{Docs: map[string]string{"greet": greet}})
	require.NoError(t, res.Err)

	assert.Contains(t, res.Document.Bag, "greet#hello")
	assert.Contains(t, res.Document.Bag, "greet#msg")

	require.Len(t, res.Result.Main.Children, 1)
	hello := child[*executor.Column](t, res.Result.Main, 0)
	text := child[*executor.Text](t, hello, 0)
	assert.Equal(t, "Hello from greet", text.Text.Value)
	assert.Equal(t, "greet#msg", text.Text.Reference)
}

func TestExecute_ContainerInsideDefinition(t *testing.T) {
	res := render(t, `-- component card:

--- ftd.column:
id: body

--- container: body

--- ftd.text: inside

-- card:
`, nil)

	card := child[*executor.Column](t, res.Main, 0)
	require.Len(t, card.Children, 1)
	body := child[*executor.Column](t, card, 0)
	assert.Equal(t, "body", body.DataID)
	inside := child[*executor.Text](t, body, 0)
	assert.Equal(t, "body:0", inside.DataID)
}

func TestExecute_OpenTrueContainer(t *testing.T) {
	res := render(t, `-- ftd.column:
id: box
open: true

-- container: box

-- ftd.text: inside
`, nil)

	box := child[*executor.Column](t, res.Main, 0)
	assert.Equal(t, "box:0", child[*executor.Text](t, box, 0).DataID)
}

func TestExecute_Builtins(t *testing.T) {
	res := render(t, `-- ftd.decimal: 2.675
format: .2f

-- ftd.integer: 1234567
format: ,

-- ftd.boolean: true
true: on

-- ftd.iframe:
youtube: abc

-- ftd.code: print(1)

-- ftd.image:
src: banner.png

-- ftd.text: styled
color: red
width: 50%
padding: 4
align: top
classes: a, b
`, nil)

	require.Len(t, res.Main.Children, 7)
	assert.Equal(t, "2.68", child[*executor.Decimal](t, res.Main, 0).Text)
	assert.Equal(t, "1,234,567", child[*executor.Integer](t, res.Main, 1).Text)

	b := child[*executor.Boolean](t, res.Main, 2)
	assert.True(t, b.Value.Value)
	assert.Equal(t, "on", b.Text)

	frame := child[*executor.Iframe](t, res.Main, 3)
	assert.Equal(t, "https://www.youtube.com/embed/abc", frame.Src.Value)
	assert.Equal(t, "lazy", frame.Loading.Value)

	code := child[*executor.Code](t, res.Main, 4)
	assert.Equal(t, "print(1)", code.Text.Value)
	assert.Equal(t, "txt", code.Lang.Value)
	assert.Equal(t, "fastn-theme.dark", code.Theme.Value)

	img := child[*executor.Image](t, res.Main, 5)
	assert.Equal(t, executor.ImageSource{Light: "banner.png", Dark: "banner.png"}, img.Src.Value)

	text := child[*executor.Text](t, res.Main, 6)
	require.NotNil(t, text.Color)
	assert.Equal(t, executor.RGBA{R: 255, A: 1}, text.Color.Value.Light)
	assert.Equal(t, text.Color.Value.Light, text.Color.Value.Dark)
	require.NotNil(t, text.Width)
	assert.Equal(t, executor.Length{Type: executor.LengthPercent, Value: 50}, text.Width.Value)
	require.NotNil(t, text.Padding)
	assert.Equal(t, int64(4), text.Padding.Value)
	require.NotNil(t, text.Align)
	assert.Equal(t, executor.Alignment("top-center"), text.Align.Value)
	require.NotNil(t, text.Classes)
	assert.Equal(t, []string{"a", "b"}, text.Classes.Value)
	assert.Nil(t, text.Height)
}

func TestExecute_WebComponent(t *testing.T) {
	res := render(t, `-- web-component word-count:
string body-text:
integer $count: 0
optional string label:

-- word-count:
body-text: hello world
`, nil)

	web := child[*executor.WebComponent](t, res.Main, 0)
	assert.Equal(t, "main#word-count", web.Name)
	assert.Equal(t, "hello world", web.Properties["body-text"].Text)
	assert.Equal(t, int64(0), web.Properties["count"].Integer)
	assert.NotContains(t, web.Properties, "label")
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		errKind diag.Kind
		message string
	}{
		{"container not found", "-- container: nowhere\n", diag.ContainerError, "container `nowhere` not found"},
		{"container not open", "-- ftd.column:\nid: box\n\n-- container: box\n", diag.ContainerError, "is not open"},
		{"text container", "-- ftd.text: a\nid: t\n\n-- container: t\n", diag.ContainerError, "not a container"},
		{"text without text", "-- ftd.text:\n", diag.ParseError, "requires `text`"},
		{"iframe without source", "-- ftd.iframe:\n", diag.ParseError, "Either srcdoc or src or youtube id is required"},
		{"iframe with two sources", "-- ftd.iframe: https://example.com\nyoutube: abc\n", diag.ParseError, "only one of"},
		{"children on a leaf", "-- ftd.text: a\n\n--- ftd.text: b\n", diag.ContainerError, "cannot hold children"},
		{"invalid color", "-- ftd.text: a\ncolor: nope\n", diag.ParseError, "invalid color"},
		{"invalid length", "-- ftd.text: a\nwidth: wide\n", diag.ParseError, "invalid length"},
		{"required argument", "-- component c:\ncaption title:\n\n-- c:\n", diag.ParseError, "argument `title` is required"},
		{"bad number format", "-- ftd.integer: 5\nformat: .2q\n", diag.EvaluationError, "cannot format"},
		{"component includes itself", "-- component foo:\n\n--- foo:\n\n-- foo:\n", diag.TypeError, "component `main#foo` includes itself unconditionally"},
		{"self inclusion through another component", "-- component a:\n\n--- ftd.text: x\n\n-- component b:\n\n--- a:\n\n--- b:\n\n-- b:\n", diag.TypeError, "`main#b` includes itself"},
		{"conditional recursion never ends", "-- boolean deep: true\n\n-- component tree:\n\n--- tree:\nif: $deep\n\n-- tree:\n", diag.EvaluationError, "nested more than 256 levels deep"},
		{"leaf component root with children", "-- component label:\nroot: ftd.text\ntext: x\n\n-- label:\n\n--- ftd.text: y\n", diag.ContainerError, "cannot take children"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := testutil.Render(t, tc.source, nil)
			require.Error(t, res.Err)
			assert.True(t, diag.Is(res.Err, tc.errKind), "got %v", res.Err)
			assert.Contains(t, res.Err.Error(), tc.message)
		})
	}
}

func TestExecute_ConditionalRecursionStops(t *testing.T) {
	res := render(t, "-- boolean deep: false\n\n-- component tree:\n\n--- tree:\nif: $deep\n\n-- tree:\n\n-- tree:\n", nil)

	require.Len(t, res.Main.Children, 2)
	for i := range 2 {
		tree := child[*executor.Column](t, res.Main, i)
		require.Len(t, tree.Children, 1)
		assert.IsType(t, &executor.Null{}, tree.Children[0])
	}
}

func TestExecute_Deterministic(t *testing.T) {
	source := personDocument + "\n-- $count: 0\n\n" + togglerComponent + `
-- person-row: $obj.name
$loop$: $people as $obj

$obj.bio

-- toggler:

-- ftd.integer: $count
`
	first := render(t, source, nil)
	second := render(t, source, nil)

	if diff := cmp.Diff(first, second, cmpopts.IgnoreUnexported(executor.Common{})); diff != "" {
		t.Errorf("executing twice gave different trees (-first +second):\n%s", diff)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, _ := testutil.Context(t)
	doc, err := interpreter.Interpret(ctx, "main", "-- ftd.text: a\n", &testutil.Library{})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = executor.Execute(cancelled, doc)
	assert.ErrorIs(t, err, context.Canceled)
}
