package domain

type Floor string

const (
	FloorGround   Floor = "ground"
	FloorUpper    Floor = "upper"
	FloorLower    Floor = "lower"
	FloorBasement Floor = "basement"
)

type FloorInfo struct {
	Floor    Floor
	Names    map[Language]string
	Color    string
	Shortcut string
}

var floorCatalog = []FloorInfo{
	{Floor: FloorGround, Color: "#10b981", Shortcut: "Shift+1", Names: map[Language]string{
		LanguageKorean: "1층 (지상)", LanguageEnglish: "Ground Floor", LanguageJapanese: "1階（地上）",
	}},
	{Floor: FloorUpper, Color: "#3b82f6", Shortcut: "Shift+2", Names: map[Language]string{
		LanguageKorean: "2층 (상층)", LanguageEnglish: "Upper Floor", LanguageJapanese: "2階（上層）",
	}},
	{Floor: FloorLower, Color: "#f59e0b", Shortcut: "Shift+3", Names: map[Language]string{
		LanguageKorean: "지하 1층", LanguageEnglish: "Lower Floor", LanguageJapanese: "地下1階",
	}},
	{Floor: FloorBasement, Color: "#ef4444", Shortcut: "Shift+4", Names: map[Language]string{
		LanguageKorean: "지하 2층", LanguageEnglish: "Basement", LanguageJapanese: "地下2階",
	}},
}

func Floors() []FloorInfo {
	return floorCatalog
}

func LookupFloor(f Floor) (FloorInfo, bool) {
	for _, info := range floorCatalog {
		if info.Floor == f {
			return info, true
		}
	}
	return FloorInfo{}, false
}

// FloorName returns the localized floor name, falling back to English.
func FloorName(f Floor, lang Language) string {
	info, ok := LookupFloor(f)
	if !ok {
		return string(f)
	}
	if name, ok := info.Names[lang]; ok {
		return name
	}
	return info.Names[LanguageEnglish]
}

type MapID string

type MapInfo struct {
	ID         MapID            `json:"id"`
	Name       string           `json:"name"`
	Background map[Theme]string `json:"background"`
	Floors     []Floor          `json:"floors"`
}

// HasFloor reports whether f is one of the map's floors.
func (m MapInfo) HasFloor(f Floor) bool {
	for _, candidate := range m.Floors {
		if candidate == f {
			return true
		}
	}
	return false
}

func (m MapInfo) FirstFloor() Floor {
	return m.Floors[0]
}

const DefaultMap MapID = "dust2"

var mapCatalog = []MapInfo{
	{ID: "dust2", Name: "Dust2", Background: map[Theme]string{ThemeLight: "#d4a574", ThemeDark: "#8b6914"}, Floors: []Floor{FloorGround, FloorUpper}},
	{ID: "mirage", Name: "Mirage", Background: map[Theme]string{ThemeLight: "#c4b5a0", ThemeDark: "#78716c"}, Floors: []Floor{FloorGround, FloorUpper, FloorLower}},
	{ID: "inferno", Name: "Inferno", Background: map[Theme]string{ThemeLight: "#8b7355", ThemeDark: "#57534e"}, Floors: []Floor{FloorGround, FloorUpper}},
	{ID: "cache", Name: "Cache", Background: map[Theme]string{ThemeLight: "#a8a8a8", ThemeDark: "#525252"}, Floors: []Floor{FloorGround, FloorLower}},
	{ID: "overpass", Name: "Overpass", Background: map[Theme]string{ThemeLight: "#7fb069", ThemeDark: "#365314"}, Floors: []Floor{FloorGround, FloorUpper, FloorLower, FloorBasement}},
}

func Maps() []MapInfo {
	return mapCatalog
}

func LookupMap(id MapID) (MapInfo, error) {
	for _, m := range mapCatalog {
		if m.ID == id {
			return m, nil
		}
	}
	return MapInfo{}, ErrUnknownMap
}

type Operator string

type Role string

const (
	RoleEntry        Role = "entry"
	RoleHardBreacher Role = "hardBreacher"
	RoleSupport      Role = "support"
	RoleAnchor       Role = "anchor"
	RoleRoamer       Role = "roamer"
)

type RoleInfo struct {
	Role      Role
	Side      Side
	Color     string
	Operators []Operator
}

var roster = []RoleInfo{
	{Role: RoleEntry, Side: SideAttack, Color: "#f59e0b", Operators: []Operator{"Ash", "Iana", "Zofia", "Sledge", "Nøkk"}},
	{Role: RoleHardBreacher, Side: SideAttack, Color: "#10b981", Operators: []Operator{"Thermite", "Hibana", "Ace", "Maverick"}},
	{Role: RoleSupport, Side: SideAttack, Color: "#8b5cf6", Operators: []Operator{"Thatcher", "Zero", "Lion", "Dokkaebi", "Gridlock"}},
	{Role: RoleAnchor, Side: SideDefense, Color: "#ec4899", Operators: []Operator{"Smoke", "Echo", "Maestro", "Warden", "Goyo"}},
	{Role: RoleRoamer, Side: SideDefense, Color: "#ef4444", Operators: []Operator{"Jäger", "Valkyrie", "Caveira", "Vigil", "Alibi"}},
}

const DefaultOperator Operator = "Ash"

func Roles() []RoleInfo {
	return roster
}

func LookupRole(side Side, role Role) (RoleInfo, error) {
	for _, info := range roster {
		if info.Side == side && info.Role == role {
			return info, nil
		}
	}
	return RoleInfo{}, ErrUnknownRole
}

// RoleOf finds the role an operator belongs to.
func RoleOf(op Operator) (RoleInfo, bool) {
	for _, info := range roster {
		for _, candidate := range info.Operators {
			if candidate == op {
				return info, true
			}
		}
	}
	return RoleInfo{}, false
}

func (o Operator) Valid() bool {
	_, ok := RoleOf(o)
	return ok
}
