package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ToolBar contains the radio-group state for the floating tool buttons.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
}

func (tb *ToolBar) SetTool(t Tool) {
	idx := int(t)
	if tb == nil || tb.group == nil || idx < 0 || idx >= len(tb.buttons) {
		return
	}
	tb.group.SetActive(tb.buttons[idx])
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle:     color.Black,
				Hover:    color.Black,
				Pressed:  color.RGBA{0, 0, 200, 255},
				Disabled: color.Gray{Y: 128},
			},
		},
	}
}

// buildEditorUI lays out the tool buttons at the top center and the undo
// and save buttons at the top right. Tool buttons form a radio group whose
// order follows the Tool values.
func buildEditorUI(onToolSelected func(tool Tool), onUndo, onSave func(), initialTool Tool) (*ebitenui.UI, *ToolBar) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)
	button := func(label string, opts ...widget.ButtonOpt) *widget.Button {
		return widget.NewButton(append([]widget.ButtonOpt{
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, ui.PrimaryTheme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(56, 40)),
		}, opts...)...)
	}
	row := func(anchor widget.AnchorLayoutPosition, bg *image.NineSlice) *widget.Container {
		opts := []widget.ContainerOpt{
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			)),
			widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: anchor,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			})),
		}
		if bg != nil {
			opts = append(opts, widget.ContainerOpts.BackgroundImage(bg))
		}
		return widget.NewContainer(opts...)
	}

	tools := row(widget.AnchorLayoutPositionCenter, solidNineSlice(color.RGBA{220, 220, 240, 255}))
	tb := &ToolBar{}
	elements := make([]widget.RadioGroupElement, 0, toolCount)
	for t := Tool(0); t < toolCount; t++ {
		b := button(t.String(), widget.ButtonOpts.ToggleMode())
		tb.buttons = append(tb.buttons, b)
		elements = append(elements, b)
		tools.AddChild(b)
	}
	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for i, b := range tb.buttons {
				if args.Active == b && onToolSelected != nil {
					onToolSelected(Tool(i))
				}
			}
		}),
	)
	tb.SetTool(initialTool)

	actions := row(widget.AnchorLayoutPositionEnd, nil)
	for _, a := range []struct {
		label string
		fn    func()
	}{
		{"Undo", onUndo},
		{"Save", onSave},
	} {
		fn := a.fn
		actions.AddChild(button(a.label, widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) {
			if fn != nil {
				fn()
			}
		})))
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(tools)
	root.AddChild(actions)
	ui.Container = root
	return ui, tb
}
