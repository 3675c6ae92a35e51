// Package imports pulls in every tool package so their init functions
// register with the registry.
package imports

import (
	_ "github.com/heretto-labs/heretto-mcp/internal/tools/deployment"
	_ "github.com/heretto-labs/heretto-mcp/internal/tools/portalurl"
	_ "github.com/heretto-labs/heretto-mcp/internal/tools/utilities/toolhelp"
)
