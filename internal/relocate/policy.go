package relocate

import (
	"backupphotos/internal/classify"
	"backupphotos/internal/config"
)

// Policy is the live photo handling policy.
type Policy struct {
	// SavePVT groups both halves of a pair in a wrapper directory.
	SavePVT bool
	// SaveJPG keeps paired stills standalone.
	SaveJPG bool
	// SaveMOV keeps paired videos standalone.
	SaveMOV bool
}

// PolicyFromConfig reads the live photo section of cfg.
func PolicyFromConfig(cfg *config.Config) Policy {
	if cfg == nil {
		return Policy{SavePVT: true, SaveJPG: true, SaveMOV: true}
	}
	return Policy{
		SavePVT: cfg.LivePhotos.SavePVT,
		SaveJPG: cfg.LivePhotos.SaveJPG,
		SaveMOV: cfg.LivePhotos.SaveMOV,
	}
}

// KeepsStandalone reports whether a file with the given role is kept outside
// a wrapper. Files that are neither stills nor videos are always kept.
func (p Policy) KeepsStandalone(role classify.Role) bool {
	switch role {
	case classify.RoleStill:
		return p.SaveJPG
	case classify.RoleMotion:
		return p.SaveMOV
	default:
		return true
	}
}
