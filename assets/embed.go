package assets

import "embed"

//go:embed css images robots.txt
var AssetsFS embed.FS
