package registry

import (
	"regexp"

	"github.com/marketduck/market-ledger/internal/entity"
)

// CreateRegistry inspects the contract code at the given address and records
// the transitions it exposes. The market only ever cares about the operator
// check and transfer entrypoints, but the full surface is kept for debugging.
func CreateRegistry(contractAddr, code string) entity.Registry {
	return entity.Registry{
		Address:     contractAddr,
		Transitions: getTransitions(code),
	}
}

func getTransitions(code string) (transitions []entity.ContractTransition) {
	tRegex := regexp.MustCompile("(?m)transition ([a-zA-Z_]*)( \\(|\\()([a-zA-Z0-9_:, ]*)\\)")
	for _, transition := range tRegex.FindAllStringSubmatch(code, -1) {
		cTransition := entity.ContractTransition{
			Name:      transition[1],
			Arguments: map[string]string{},
		}

		aRegex := regexp.MustCompile("([a-zA-Z_]{1,})[ ]*:[ ]*([a-zA-Z0-9_]*)")
		for _, argMatch := range aRegex.FindAllStringSubmatch(transition[3], -1) {
			cTransition.Arguments[argMatch[1]] = argMatch[2]
		}

		transitions = append(transitions, cTransition)
	}

	return
}
