package executor

import (
	"github.com/specialistvlad/ftdgo/internal/ctxlog"
	"github.com/specialistvlad/ftdgo/internal/diag"
	"github.com/specialistvlad/ftdgo/internal/elementid"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// findByID searches the descendants of root, in pre-order, for the element
// whose public id is id. It returns the element and its path below root.
func findByID(root Element, id string) (Element, elementid.Path) {
	c, ok := ContainerOf(root)
	if !ok {
		return nil, nil
	}
	for i, child := range c.Children {
		if cid := child.GetCommon().ID; cid != nil && cid.Value == id {
			return child, elementid.Path{i}
		}
		if found, path := findByID(child, id); found != nil {
			return found, append(elementid.Path{i}, path...)
		}
	}
	return nil, nil
}

// changeContainer resolves a `container:` id path below root.
func (e *executor) changeContainer(root Element, instr interpreter.Instruction, requireOpen bool) (Element, error) {
	ref, err := elementid.ParseRef(instr.Container)
	if err != nil {
		return nil, diag.Wrap(diag.ParseError, e.doc.Name, instr.Line, err, "invalid container path")
	}
	if ref.Main {
		return root, nil
	}

	target := root
	for _, id := range ref.IDs {
		found, _ := findByID(target, id)
		if found == nil {
			return nil, diag.Errorf(diag.ContainerError, e.doc.Name, instr.Line, "container `%s` not found", ref)
		}
		target = found
	}
	c, ok := ContainerOf(target)
	if !ok {
		return nil, diag.Errorf(diag.ContainerError, e.doc.Name, instr.Line, "`%s` is a %s, not a container", ref, target.Type())
	}
	if requireOpen && !c.isOpen() {
		return nil, diag.Errorf(diag.ContainerError, e.doc.Name, instr.Line, "container `%s` is not open", ref)
	}
	return target, nil
}

// placeExternal puts the inline children of an invocation of def into the
// component element el. Without an `open` slot they are appended to el. With
// one they are wrapped in a column inside the slot and recorded on el.
func (e *executor) placeExternal(def *interpreter.ComponentDefinition, el Element, children []interpreter.Instruction, s *scope, line int) error {
	c, ok := ContainerOf(el)
	if !ok {
		return diag.Errorf(diag.ContainerError, e.doc.Name, line, "component `%s` has a %s root and cannot take children", def.Name, el.Type())
	}
	if c.Open == nil || c.Open.Value == "true" {
		return e.run(el, children, s, false)
	}

	slotID := c.Open.Value
	ext := &ExternalChildren{Slot: slotID}
	wrapper := &Column{}
	slot, slotPath := findByID(el, slotID)
	if slot == nil {
		ctxlog.FromContext(e.ctx).Warn("External children present but open slot missing.", "component", def.Name, "slot", slotID, "dataID", el.GetCommon().DataID)
		ext.Unsatisfied = true
		wrapper.anchor = el.GetCommon().DataID
		wrapper.DataID = elementid.DataID(wrapper.anchor, nil, "external")
		if err := e.run(wrapper, children, s, false); err != nil {
			return err
		}
	} else {
		sc, ok := ContainerOf(slot)
		if !ok {
			return diag.Errorf(diag.ContainerError, e.doc.Name, line, "open slot `%s` of `%s` is a %s, not a container", slotID, def.Name, slot.Type())
		}
		sc.IsSlot = true
		wrapper.anchor, wrapper.path = childAt(slot, len(sc.Children))
		wrapper.DataID = elementid.DataID(wrapper.anchor, wrapper.path, "")
		if err := e.run(wrapper, children, s, false); err != nil {
			return err
		}
		sc.Children = append(sc.Children, wrapper)
		ext.Paths = []string{slotPath.String()}
	}
	ext.Children = Children{wrapper}
	ext.ChildIDs = []string{wrapper.DataID}
	c.External = ext
	return nil
}
