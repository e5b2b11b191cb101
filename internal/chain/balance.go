package chain

// Balance computes an address's balance by a full scan of the chain only
// (§4.4): mempool transactions are never visible (§5 ordering contract).
func (s *State) Balance(address string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(address)
}

func (s *State) balanceLocked(address string) float64 {
	var balance float64
	for _, block := range s.chain {
		isMiner := block.Miner == address
		if isMiner {
			balance += block.MinerRewards
		}
		for _, tx := range block.Transactions {
			if isMiner {
				balance += tx.Fee
			}
			if tx.Sender == address {
				balance -= tx.Amount + tx.Fee
			}
			if tx.Receiver == address {
				balance += tx.Amount
			}
		}
	}
	return balance
}
