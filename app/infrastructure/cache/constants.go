package cache

const (
	CacheVersion           = "v1"
	QuotaCounterKeyPattern = CacheVersion + ":quota:%s:%s" // identity, day
	SweepLockKey           = CacheVersion + ":cache:sweep:lock"
	QuotaGCLockKey         = CacheVersion + ":quota:gc:lock"
)
