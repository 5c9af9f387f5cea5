package ctdf

type DataSourceReference struct {
	OriginalFormat string `groups:"internal"`
	ProviderName   string `groups:"internal"`
	DatasetID      string `groups:"internal"`
	DocumentID     string `groups:"internal"`
	Timestamp      string `groups:"internal"`
}
