package metadomain

import (
	"math"
	"strconv"
)

type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type ActionType string

// Rótulos equivalentes de compra, variam conforme a configuração da conta
const (
	ActionTypePurchase      ActionType = "purchase"
	ActionTypeOmniPurchase  ActionType = "omni_purchase"
	ActionTypePixelPurchase ActionType = "offsite_conversion.fb_pixel_purchase"
)

// ActionPreference é uma lista ordenada de tipos de ação; o primeiro tipo
// da lista presente na resposta vence.
type ActionPreference []ActionType

var PurchaseActionTypes = ActionPreference{
	ActionTypePurchase,
	ActionTypeOmniPurchase,
	ActionTypePixelPurchase,
}

// With devolve uma nova lista com os tipos extras ao final, sem repetições
func (p ActionPreference) With(extra ...ActionType) ActionPreference {
	out := make(ActionPreference, 0, len(p)+len(extra))
	seen := make(map[ActionType]struct{}, len(p)+len(extra))
	for _, t := range append(append(ActionPreference{}, p...), extra...) {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Find devolve a ação do tipo de maior preferência presente em actions.
// Entre ações do mesmo tipo, vale a primeira na ordem do array.
func (p ActionPreference) Find(actions []Action) (Action, bool) {
	for _, t := range p {
		for _, action := range actions {
			if ActionType(action.ActionType) == t {
				return action, true
			}
		}
	}
	return Action{}, false
}

// FloatValue extrai o valor monetário da ação preferida, 0 quando ausente
func (p ActionPreference) FloatValue(actions []Action) float64 {
	action, ok := p.Find(actions)
	if !ok {
		return 0
	}
	return ParseFloat(action.Value)
}

// IntValue extrai a contagem da ação preferida, 0 quando ausente
func (p ActionPreference) IntValue(actions []Action) int64 {
	action, ok := p.Find(actions)
	if !ok {
		return 0
	}
	return ParseInt(action.Value)
}

// ParseFloat converte os campos string da API, 0 quando inválido
func ParseFloat(value string) float64 {
	f, _ := TryParseFloat(value)
	return f
}

// TryParseFloat informa se o valor era um número finito; vazio conta como 0 válido
func TryParseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, true
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt aceita inteiros e valores decimais, truncando a parte fracionária
func ParseInt(value string) int64 {
	i, _ := TryParseInt(value)
	return i
}

// TryParseInt é ParseInt informando se o valor era aproveitável
func TryParseInt(value string) (int64, bool) {
	if value == "" {
		return 0, true
	}

	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i, true
	}

	f, ok := TryParseFloat(value)
	if !ok || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
