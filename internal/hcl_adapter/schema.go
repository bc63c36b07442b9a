package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks and
// attributes from any file.
type fileRoot struct {
	Domain       hcl.Expression     `hcl:"domain,optional"`
	Evidence     hcl.Expression     `hcl:"evidence,optional"`
	Nodes        []*nodeBlock       `hcl:"node,block"`
	Dependencies []*dependencyBlock `hcl:"dependency,block"`
}

// nodeBlock is a `node "<name>" { ... }` block.
type nodeBlock struct {
	Name  string         `hcl:"name,label"`
	Role  string         `hcl:"role"`
	Prior hcl.Expression `hcl:"prior,optional"`
}

// dependencyBlock is a `dependency "<child>" { ... }` block.
type dependencyBlock struct {
	Child   string      `hcl:"child,label"`
	Parents []string    `hcl:"parents"`
	Rows    []*rowBlock `hcl:"row,block"`
}

// rowBlock is a single `row { given = [...] probs = {...} }` entry.
type rowBlock struct {
	Given hcl.Expression `hcl:"given"`
	Probs hcl.Expression `hcl:"probs"`
}
