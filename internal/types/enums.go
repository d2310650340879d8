package types

type Category string

const (
	CategoryAdvertise  Category = "advertise"
	CategorySubscribe  Category = "subscribe"
	CategoryService    Category = "service"
	CategoryClient     Category = "client"
	CategoryReadParam  Category = "readParam"
	CategoryWriteParam Category = "writeParam"
)

// Categories lists the known interface categories in display order.
var Categories = []Category{
	CategoryAdvertise,
	CategorySubscribe,
	CategoryService,
	CategoryClient,
	CategoryReadParam,
	CategoryWriteParam,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryAdvertise, CategorySubscribe, CategoryService,
		CategoryClient, CategoryReadParam, CategoryWriteParam:
		return true
	default:
		return false
	}
}

type TrackForm string

const (
	TrackFormConcrete  TrackForm = "concrete"
	TrackFormInherited TrackForm = "inherited"
)

type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeChanged ChangeKind = "changed"
)
