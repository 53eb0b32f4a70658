package app

import (
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/modules/cargo_toml"
	"github.com/specialistvlad/ftdgo/modules/env_vars"
	"github.com/specialistvlad/ftdgo/modules/http_request"
	"github.com/specialistvlad/ftdgo/modules/request_data"
)

// coreModules is the definitive list of all processor modules that are
// compiled into the ftdgo binary.
var coreModules = []registry.Module{
	&cargo_toml.Module{},
	&env_vars.Module{},
	&http_request.Module{},
	&request_data.Module{},
}
