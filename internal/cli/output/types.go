package output

// Field is one named value of a record, in declaration order.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// RecordInfo describes one record for structured output.
type RecordInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	Document   string   `json:"document" yaml:"document"`
	Section    string   `json:"section" yaml:"section"`
	Line       int      `json:"line" yaml:"line"`
	Fields     []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	Text       string   `json:"text,omitempty" yaml:"text,omitempty"`
}

// KindList is the ordered record names of one kind.
type KindList struct {
	Kind  string   `json:"kind" yaml:"kind"`
	Names []string `json:"names" yaml:"names"`
}

// ListOutput is the structured output of the list command.
type ListOutput struct {
	Document string     `json:"document" yaml:"document"`
	Kinds    []KindList `json:"kinds" yaml:"kinds"`
	Total    int        `json:"total" yaml:"total"`
}

// RefsOutput is the structured output of the refs command.
type RefsOutput struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	References []string `json:"references" yaml:"references"`
	Targets    []string `json:"targets" yaml:"targets"`
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	File     string   `json:"file" yaml:"file"`
	Records  int      `json:"records" yaml:"records"`
	Sections int      `json:"sections" yaml:"sections"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CheckOutput is the structured output of the check command.
type CheckOutput struct {
	Files  []FileResult `json:"files" yaml:"files"`
	Errors int          `json:"errors" yaml:"errors"`
}

// PackageInfo describes a loaded package.
type PackageInfo struct {
	Name         string   `json:"name" yaml:"name"`
	Version      string   `json:"version" yaml:"version"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Records      int      `json:"records" yaml:"records"`
}
