package entity

// Family identifies the blockchain protocol family that determines the transaction shape.
type Family string

const (
	FamilyAlgorand  Family = "algorand"
	FamilyAptos     Family = "aptos"
	FamilyBitcoin   Family = "bitcoin"
	FamilyCardano   Family = "cardano"
	FamilyCelo      Family = "celo"
	FamilyCosmos    Family = "cosmos"
	FamilyElrond    Family = "elrond"
	FamilyEthereum  Family = "ethereum"
	FamilyEVM       Family = "evm"
	FamilyFilecoin  Family = "filecoin"
	FamilyHedera    Family = "hedera"
	FamilyNear      Family = "near"
	FamilyPolkadot  Family = "polkadot"
	FamilyRipple    Family = "ripple"
	FamilySolana    Family = "solana"
	FamilyStellar   Family = "stellar"
	FamilySui       Family = "sui"
	FamilyTezos     Family = "tezos"
	FamilyTon       Family = "ton"
	FamilyTron      Family = "tron"
	FamilyVeChain   Family = "vechain"
	FamilyMultiSign Family = "internet_computer"
)

// AllFamilies lists every family the transaction builder knows how to shape.
func AllFamilies() []Family {
	return []Family{
		FamilyAlgorand, FamilyAptos, FamilyBitcoin, FamilyCardano, FamilyCelo,
		FamilyCosmos, FamilyElrond, FamilyEthereum, FamilyEVM, FamilyFilecoin,
		FamilyHedera, FamilyNear, FamilyPolkadot, FamilyRipple, FamilySolana,
		FamilyStellar, FamilySui, FamilyTezos, FamilyTon, FamilyTron,
		FamilyVeChain, FamilyMultiSign,
	}
}

func (f Family) String() string {
	return string(f)
}
