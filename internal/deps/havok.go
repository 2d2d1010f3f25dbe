package deps

import (
	"hkxtool/internal/config"
)

// CheckHavokTools evaluates every external tool in the conversion chain.
//
// WitchyBND unpacks the binder archives, hkxcmd does the HKX/FBX conversion,
// and HavokBehaviorPostProcess upgrades 32-bit output to the 64-bit Skyrim
// SE layout. hkxcmd and the post-processor are individually optional: one
// working converter is enough for a usable chain, which is why HasConverter
// exists alongside the per-tool statuses.
func CheckHavokTools(cfg *config.Config) []Status {
	return CheckBinaries([]Requirement{
		{
			Name:        "WitchyBND",
			Command:     cfg.Tools.WitchyBND,
			Description: "Unpacks .anibnd.dcx / .behbnd.dcx binder archives",
		},
		{
			Name:        "hkxcmd",
			Command:     cfg.Tools.HkxCmd,
			Description: "Converts between HKX/FBX/KF formats",
			Optional:    true,
		},
		{
			Name:        "HavokBehaviorPostProcess",
			Command:     cfg.Tools.HavokPostProcess,
			Description: "Upgrades 32-bit HKX to the 64-bit Skyrim SE format",
			Optional:    true,
		},
	})
}

// HasConverter reports whether at least one conversion tool is available.
func HasConverter(statuses []Status) bool {
	for _, s := range statuses {
		if s.Available && (s.Name == "hkxcmd" || s.Name == "HavokBehaviorPostProcess") {
			return true
		}
	}
	return false
}
