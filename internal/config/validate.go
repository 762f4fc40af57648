package config

import "regexp"

var geometryRe = regexp.MustCompile(`^\d{3,5}x\d{3,5}$`)
