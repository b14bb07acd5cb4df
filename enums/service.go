package enums

type Service string

const (
	ServicePixeldrain Service = "pixeldrain"
	ServiceRedGIFs    Service = "redgifs"
)
