package domain

// ContractName identifies this oracle's persisted state. Upgrades are refused
// when the stored name differs.
const ContractName = "rateoracle"

type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}
