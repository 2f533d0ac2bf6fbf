package keybind

// Binding is one named shortcut entry mapping one or more accelerator
// sequences to a handler. Bindings are immutable once added and are only
// discarded together with the registry that owns them.
type Binding struct {
	// Name doubles as the schema key name and the window manager's
	// binding identifier. It must be unique within one registry.
	Name string

	// Sequences holds accelerator strings such as "<Super>j". Order is
	// preserved in the rendered schema document; it carries no priority.
	Sequences []string

	// Handler runs when any of the sequences is triggered.
	Handler Handler
}
