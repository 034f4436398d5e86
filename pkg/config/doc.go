/*
Package config loads and validates the assetrc pipeline configuration.

	            +-------------+
	            |   Config    |
	            |  (Pipeline) |
	            +------+------+
	                   |
	   +-----------+---+-------+-----------+
	   |           |           |           |
	+--+---+   +---+--+   +----+--+   +----+-----+
	| YAML |   | JSON |   |  HCL  |   | .assetrc |
	+------+   +------+   +-------+   +----------+

🎯 Purpose:
- Reads .assetrc.yaml / .json / .hcl (or a bare .assetrc, YAML then HCL)
- Fills in the conventional src/ layout when sections are omitted
- Validates ports, durations and replacement rules up front

🔄 Flow:
1. Load picks a registered Parser by file name
2. The parser decodes strictly (unknown fields are errors)
3. Validate applies defaults and checks values

⚡ Conventions:
- Every glob is relative to the directory holding the config file (Dir)
- Glob lists are ordered; a leading "!" removes earlier matches
- Root is both the served directory and the prefix stripped from injected tags

🔍 Example:

	cfg, err := config.Load(ctx, ".assetrc.yaml")
	if err != nil {
		return err
	}
	scripts, err := fileset.Expand(cfg.Dir(), cfg.Files.Scripts)
*/
package config
