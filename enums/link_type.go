package enums

type LinkType string

const (
	LinkTypeFile LinkType = "u"
	LinkTypeList LinkType = "l"
)
