package redgifs

type Response struct {
	Gif *Gif `json:"gif"`
}

type Token struct {
	AccessToken string `json:"token"`
	Agent       string `json:"agent"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Urls struct {
	Silent    string `json:"silent"`
	Sd        string `json:"sd"`
	Hd        string `json:"hd"`
	Thumbnail string `json:"thumbnail"`
	HTML      string `json:"html"`
	Poster    string `json:"poster"`
}

type Gif struct {
	CreateDate  int      `json:"createDate"`
	Description string   `json:"description"`
	Duration    float64  `json:"duration"`
	HasAudio    bool     `json:"hasAudio"`
	Height      int      `json:"height"`
	ID          string   `json:"id"`
	Tags        []string `json:"tags"`
	Urls        Urls     `json:"urls"`
	UserName    string   `json:"userName"`
	Width       int      `json:"width"`
}

// Media is what every strategy extracts from a watch page.
type Media struct {
	Title        string
	FileURL      string
	ThumbnailURL string
}
