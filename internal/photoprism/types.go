package photoprism

// Album represents a PhotoPrism album
type Album struct {
	UID         string `json:"UID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	PhotoCount  int    `json:"PhotoCount"`
	Type        string `json:"Type"`
}

// Photo represents a PhotoPrism photo search result
type Photo struct {
	UID          string  `json:"UID"`
	Title        string  `json:"Title"`
	Description  string  `json:"Description"`
	TakenAt      string  `json:"TakenAt"`
	TakenAtLocal string  `json:"TakenAtLocal"`
	UpdatedAt    string  `json:"UpdatedAt"`
	Type         string  `json:"Type"`
	Hash         string  `json:"Hash"`
	Width        int     `json:"Width"`
	Height       int     `json:"Height"`
	CameraMake   string  `json:"CameraMake"`
	CameraModel  string  `json:"CameraModel"`
	LensModel    string  `json:"LensModel"`
	FocalLength  int     `json:"FocalLength"` // mm, 0 when unknown
	FNumber      float64 `json:"FNumber"`     // 0 when unknown
	Iso          int     `json:"Iso"`         // 0 when unknown
	Exposure     string  `json:"Exposure"`    // e.g. "1/250"
	Private      bool    `json:"Private"`
}

// PhotoLabel is a label attached to a photo in the photo details response
type PhotoLabel struct {
	Uncertainty int `json:"Uncertainty"`
	Label       struct {
		Name string `json:"Name"`
	} `json:"Label"`
}

// photoDetails is the subset of the photo details response that is used
type photoDetails struct {
	UID    string       `json:"UID"`
	Labels []PhotoLabel `json:"Labels"`
}
