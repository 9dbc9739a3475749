package xmile

// Binding is the referent an identifier resolves to (spec §3 "Symbol
// table... Referent variants"). Seven of the eight concrete binding types
// below correspond to one referent variant each: variable-in-scope,
// dimension, subscript element within a named dimension, macro, graphical
// function, module input/output port, and builtin. The eighth,
// SubmodelBinding, is what a module instance's submodel reference binds to.
type Binding interface {
	isBinding()
	// Describe returns a short human-readable label for diagnostics, e.g.
	// "flow \"Heat Loss to Room\"".
	Describe() string
}

// VariableBinding refers to a declared Stock, Flow, or Auxiliary.
type VariableBinding struct {
	Variable Variable
}

func (*VariableBinding) isBinding() {}

// Describe implements Binding.
func (b *VariableBinding) Describe() string {
	return string(b.Variable.Kind()) + " " + b.Variable.VarName().Display
}

// DimensionBinding refers to a declared Dimension, used when an identifier
// names an entire dimension (an implicit loop, spec §4.6 step 5) rather than
// one of its elements.
type DimensionBinding struct {
	Dimension *Dimension
}

func (*DimensionBinding) isBinding() {}

// Describe implements Binding.
func (b *DimensionBinding) Describe() string {
	return "dimension " + b.Dimension.Name.Display
}

// ElementBinding refers to one named element of a declared Dimension.
type ElementBinding struct {
	Dimension *Dimension
	Element   *SubscriptElement
}

func (*ElementBinding) isBinding() {}

// Describe implements Binding.
func (b *ElementBinding) Describe() string {
	return "subscript element " + b.Element.Name.Display + " of " + b.Dimension.Name.Display
}

// MacroBinding refers to a declared Macro.
type MacroBinding struct {
	Macro *Macro
}

func (*MacroBinding) isBinding() {}

// Describe implements Binding.
func (b *MacroBinding) Describe() string {
	return "macro " + b.Macro.Name
}

// GfBinding refers to a top-level or inline GraphicalFunction.
type GfBinding struct {
	Gf *GraphicalFunction
}

func (*GfBinding) isBinding() {}

// Describe implements Binding.
func (b *GfBinding) Describe() string {
	return "graphical function " + b.Gf.VarName().Display
}

// ModulePortBinding refers to one input or output port of a Model used as a
// submodel (spec's SUPPLEMENTED FEATURES: module port binding).
type ModulePortBinding struct {
	Module *Model
	Port   *Port
}

func (*ModulePortBinding) isBinding() {}

// Describe implements Binding.
func (b *ModulePortBinding) Describe() string {
	return "port " + b.Port.Name.Display + " of " + b.Module.Name.Display
}

// SubmodelBinding refers to a Model looked up by name as the target of a
// ModuleInstance.
type SubmodelBinding struct {
	Model *Model
}

func (*SubmodelBinding) isBinding() {}

// Describe implements Binding.
func (b *SubmodelBinding) Describe() string {
	return "model " + b.Model.ModelName()
}

// BuiltinBinding refers to a read-only root-scope builtin (spec §4.5).
type BuiltinBinding struct {
	Builtin *BuiltinDef
}

func (*BuiltinBinding) isBinding() {}

// Describe implements Binding.
func (b *BuiltinBinding) Describe() string {
	return "builtin " + b.Builtin.Name
}
