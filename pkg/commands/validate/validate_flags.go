package validate

import (
	"github.com/xiidea/easy-audit/pkg/commands/flags"
)

var validateFlags = flags.Merge(
	flags.ConfigFlags(),
	flags.OutputFlags("text", "output format (text|json)"),
)
