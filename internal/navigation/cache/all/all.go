package all

import (
	_ "github.com/bornholm/dbmenu/internal/navigation/cache/file"
	_ "github.com/bornholm/dbmenu/internal/navigation/cache/s3"
)
