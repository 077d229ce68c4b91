package redis

const (
	prefixWatcher      = "herald:wch:"
	uniqueWatcherLogin = "herald:u:wch:login:"
	zWatcherAll        = "herald:z:wch:all"
)

func watcherKey(id string) string { return prefixWatcher + id }

func loginKey(login string) string { return uniqueWatcherLogin + login }
