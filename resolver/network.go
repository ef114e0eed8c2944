package resolver

// Network selects which chain a contract handle is bound to. Primary
// is the chain the protocol lives on; Mainnet is the secondary client
// used for cross-network lookups such as token prices.
type Network uint8

const (
	Primary Network = iota
	Mainnet
)

func (n Network) String() string {
	if n == Mainnet {
		return "mainnet"
	}
	return "primary"
}
