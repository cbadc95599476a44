package models

// Template is a scaffold offered by the create dialog. Content is a
// text/template body rendered with the new prompt's name and role.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Role        Role   `yaml:"type,omitempty"`

	Content string `yaml:"-"`
	Key     string `yaml:"-"`
}

// BuiltinTemplates returns the scaffolds that ship with the binary: a blank
// body followed by one starter per composable role.
func BuiltinTemplates() []*Template {
	return []*Template{
		{
			Name:    "Blank",
			Role:    RoleWhole,
			Content: "",
		},
		{
			Name:    "Instruction",
			Role:    RoleInstruction,
			Content: "# {{.Name}}\n\nYou are an assistant. Describe the task to perform here.\n",
		},
		{
			Name:    "Context",
			Role:    RoleContext,
			Content: "# {{.Name}}\n\nBackground information the model should know.\n",
		},
		{
			Name:    "Input indicator",
			Role:    RoleInputIndicator,
			Content: "# {{.Name}}\n\nThe input follows below.\n",
		},
		{
			Name:    "Output indicator",
			Role:    RoleOutputIndicator,
			Content: "# {{.Name}}\n\nRespond in the following format:\n",
		},
		{
			Name:    "Etc",
			Role:    RoleEtc,
			Content: "# {{.Name}}\n",
		},
	}
}
