package daemon

const (
	HomeFlag        = "home"
	forceFlag       = "force"
	rpcListenerFlag = "rpc-listener"
	earlyFlag       = "early-closure"
)
