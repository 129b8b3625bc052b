package balance

import (
	"container/list"
	"fmt"
	"sort"
)

// Transfer is one payment in a settlement plan. Amounts are AUD.
type Transfer struct {
	From   string
	To     string
	Amount float64
}

// position is the net movement of one user while the plan is built.
type position struct {
	user   string
	amount float64
}

// generateQueues splits net positions into two sorted queues, creditors
// and debtors, largest amounts first with the user name breaking ties.
func generateQueues(balances map[string]float64) (*list.List, *list.List) {
	var creditors []position
	var debtors []position

	for user, amount := range balances {
		switch {
		case amount > epsilon:
			creditors = append(creditors, position{user: user, amount: amount})
		case amount < -epsilon:
			debtors = append(debtors, position{user: user, amount: -amount})
		}
	}

	byAmountDesc := func(slice []position) func(i, j int) bool {
		return func(i, j int) bool {
			if slice[i].amount == slice[j].amount {
				return slice[i].user < slice[j].user
			}
			return slice[i].amount > slice[j].amount
		}
	}
	sort.SliceStable(creditors, byAmountDesc(creditors))
	sort.SliceStable(debtors, byAmountDesc(debtors))

	creditorQueue := list.New()
	for _, p := range creditors {
		creditorQueue.PushBack(p)
	}
	debtorQueue := list.New()
	for _, p := range debtors {
		debtorQueue.PushBack(p)
	}
	return creditorQueue, debtorQueue
}

// Plan pairs debtors against creditors into a minimal transfer list.
// The largest debt pays the largest credit first; a partially consumed
// position goes back on its queue until the books balance. An overall
// imbalance beyond float tolerance is an input error.
func Plan(balances map[string]float64) ([]Transfer, error) {
	var total float64
	for _, amount := range balances {
		total += amount
	}
	if total > 1e-6 || total < -1e-6 {
		return nil, fmt.Errorf("balances do not sum to zero (off by %.6f)", total)
	}

	creditorQueue, debtorQueue := generateQueues(balances)

	var transfers []Transfer
	for debtorQueue.Len() > 0 && creditorQueue.Len() > 0 {
		debtorElem := debtorQueue.Front()
		debtorQueue.Remove(debtorElem)
		debtor := debtorElem.Value.(position)

		creditorElem := creditorQueue.Front()
		creditorQueue.Remove(creditorElem)
		creditor := creditorElem.Value.(position)

		amount := debtor.amount
		if creditor.amount < amount {
			amount = creditor.amount
		}
		transfers = append(transfers, Transfer{
			From:   debtor.user,
			To:     creditor.user,
			Amount: amount,
		})

		if remaining := debtor.amount - amount; remaining > epsilon {
			debtorQueue.PushFront(position{user: debtor.user, amount: remaining})
		}
		if remaining := creditor.amount - amount; remaining > epsilon {
			creditorQueue.PushFront(position{user: creditor.user, amount: remaining})
		}
	}
	return transfers, nil
}
