package romm

// API response shapes for the RomM-style REST endpoints.

// platformDTO mirrors the platform schema
type platformDTO struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	RomCount int    `json:"rom_count"`
}

// romPageDTO is the cursor-paginated rom listing envelope
type romPageDTO struct {
	Items    []romDTO `json:"items"`
	NextPage string   `json:"next_page"` // empty/absent signals end of data
}

// romDTO mirrors the rom schema
type romDTO struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	FileName       string `json:"file_name"`
	FileNameNoExt  string `json:"file_name_no_ext"`
	FileNameNoTags string `json:"file_name_no_tags"`
	FileSizeBytes  int64  `json:"file_size_bytes"`
	PlatformID     int    `json:"platform_id"`
	PlatformSlug   string `json:"platform_slug"`

	Genres      []string `json:"genres"`
	Franchises  []string `json:"franchises"`
	Companies   []string `json:"companies"`
	Collections []string `json:"collections"`
	Languages   []string `json:"languages"`
	Regions     []string `json:"regions"`
	Tags        []string `json:"tags"`

	Summary  string `json:"summary"`
	URLCover string `json:"url_cover"`
	Multi    bool   `json:"multi"`

	UserSaves       []assetDTO `json:"user_saves"`
	UserStates      []assetDTO `json:"user_states"`
	UserScreenshots []assetDTO `json:"user_screenshots"`
}

// assetDTO mirrors the save/state/screenshot schema
type assetDTO struct {
	ID           int    `json:"id"`
	RomID        int    `json:"rom_id"`
	FileName     string `json:"file_name"`
	DownloadPath string `json:"download_path"`
	ScreenshotID int    `json:"screenshot_id"`
}

// errorDTO is the error envelope returned on non-2xx responses
type errorDTO struct {
	Detail string `json:"detail"`
}

// scanFrame is the websocket payload that triggers a library rescan
type scanFrame struct {
	Platforms    []int `json:"platforms"`
	CompleteScan bool  `json:"complete_rescan"`
}
