package tui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Success    key.Binding
	Error      key.Binding
	Warning    key.Binding
	Info       key.Binding
	Neutral    key.Binding
	Persistent key.Binding
	Replace    key.Binding
	Anchor     key.Binding
	Action     key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Success:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "success")),
		Error:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "error")),
		Warning:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "warning")),
		Info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "info")),
		Neutral:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "neutral")),
		Persistent: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "persistent")),
		Replace:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replace")),
		Anchor:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "anchor")),
		Action:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run action")),
		Dismiss:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		DismissAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Success, k.Error, k.Warning, k.Info, k.Neutral,
		k.Persistent, k.Replace, k.Anchor, k.Action,
		k.Dismiss, k.DismissAll, k.Quit,
	}
}
