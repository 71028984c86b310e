package ndspacker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// SettingsFile is looked up relative to the working directory.
const SettingsFile = "ndspacker.toml"

// Settings carries the game metadata handed to ndstool's -g flag.
type Settings struct {
	MakerCode string `toml:"maker_code"`
	GameCode  string `toml:"game_code"`
	GameTitle string `toml:"game_title"`
	// StealLogo splices the donor ROM's logo into the output when the ARM7
	// image comes from a .nds file. The firmware checks the logo against a
	// fixed CRC, so this only helps when the donor carries the official one.
	StealLogo bool `toml:"steal_logo"`
}

func defaultSettings() Settings {
	return Settings{
		MakerCode: "01",
		GameCode:  "ENAE",
		GameTitle: "NDSPACKER",
	}
}

// LoadSettings reads dir/ndspacker.toml. A missing file yields the defaults;
// a present file overrides only the keys it defines.
func LoadSettings(dir string) (Settings, error) {
	s := defaultSettings()
	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing %s: %w", SettingsFile, err)
	}
	return s, nil
}
