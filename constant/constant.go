package constant

type AssetKind string

const (
	AssetKindVideo     AssetKind = "video"
	AssetKindThumbnail AssetKind = "thumbnail"
)

func (k AssetKind) String() string {
	return string(k)
}

type StoreDriver string

const (
	StoreDriverMongo    StoreDriver = "mongo"
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

type SortField string

const (
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldUpdatedAt SortField = "updatedAt"
	SortFieldTitle     SortField = "title"
	SortFieldDuration  SortField = "duration"
)

func (f SortField) Valid() bool {
	switch f {
	case SortFieldCreatedAt, SortFieldUpdatedAt, SortFieldTitle, SortFieldDuration:
		return true
	}
	return false
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Keys set on the gin context by middleware.
const (
	ContextKeyUserId    = "userId"
	ContextKeyRequestId = "requestId"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
