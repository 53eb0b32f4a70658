package hcl

import "github.com/hashicorp/hcl/v2"

// manifest is the decoding target of a whole `ftd.hcl` file.
type manifest struct {
	Package       *packageBlock      `hcl:"package,block"`
	Dependencies  []*dependencyBlock `hcl:"dependency,block"`
	DocumentRoots []string           `hcl:"document_roots,optional"`
	Processors    []string           `hcl:"processors,optional"`
}

type packageBlock struct {
	Name      string    `hcl:"name,label"`
	Endpoint  *string   `hcl:"endpoint,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type dependencyBlock struct {
	Name      string    `hcl:"name,label"`
	Endpoint  *string   `hcl:"endpoint,optional"`
	DeclRange hcl.Range `hcl:",def_range"`
}
