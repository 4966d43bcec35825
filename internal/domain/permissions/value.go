package permissions

// ValueKind etiqueta la forma del valor polimórfico de una solicitud.
type ValueKind string

const (
	KindBool     ValueKind = "bool"
	KindDays     ValueKind = "days"
	KindChannels ValueKind = "channels"
)

// Value es un union etiquetado por Kind. Usar siempre los constructores;
// un Value armado a mano puede no pasar ValidFor.
type Value struct {
	Kind     ValueKind `json:"kind"`
	Bool     bool      `json:"bool,omitempty"`
	Days     int       `json:"days,omitempty"`
	Channels []Channel `json:"channels,omitempty"`
}

func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func DaysValue(n int) (Value, error) {
	if n < 0 {
		return Value{}, ErrInvalidInput
	}
	return Value{Kind: KindDays, Days: n}, nil
}

func ChannelsValue(in []Channel) (Value, error) {
	chs, err := normalizeChannelsStrict(in)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindChannels, Channels: chs}, nil
}

// ValidFor verifica que la forma del valor coincida con la esperada por el tipo.
func (v Value) ValidFor(t RequestType) error {
	if !t.Valid() {
		return ErrInvalidInput
	}
	if v.Kind != t.Kind() {
		return ErrInvalidInput
	}
	switch v.Kind {
	case KindDays:
		if v.Days < 0 {
			return ErrInvalidInput
		}
	case KindChannels:
		if _, err := normalizeChannelsStrict(v.Channels); err != nil {
			return err
		}
	}
	return nil
}

// resolveValue arma el valor por defecto del tipo cuando el caller no lo
// especifica: booleanos piden true, días piden 0, canales la lista provista
// (o vacía).
func resolveValue(t RequestType, b *bool, days *int, channels []Channel) (Value, error) {
	switch t.Kind() {
	case KindBool:
		if b == nil {
			return BoolValue(true), nil
		}
		return BoolValue(*b), nil
	case KindDays:
		if days == nil {
			return DaysValue(0)
		}
		return DaysValue(*days)
	case KindChannels:
		return ChannelsValue(channels)
	default:
		return Value{}, ErrInvalidInput
	}
}
