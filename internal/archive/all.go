package archive

import (
	_ "github.com/cbxthumb/cbxthumb/internal/archive/rardecode"
	_ "github.com/cbxthumb/cbxthumb/internal/archive/sevenzip"
	_ "github.com/cbxthumb/cbxthumb/internal/archive/zip"
)
