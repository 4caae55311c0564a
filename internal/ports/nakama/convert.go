package nakama

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"setgame/internal/app"

	"github.com/mitchellh/mapstructure"
)

// matchParams are the optional parameters passed to MatchCreate.
type matchParams struct {
	Difficulty      string `json:"difficulty"`
	DurationSeconds int    `json:"duration_seconds"`
	// Autostart starts the game as soon as the owner joins.
	Autostart bool `json:"autostart"`
}

// startGameRequest is the OpStartGame payload. Empty fields fall back to the
// match params and then to the game config.
type startGameRequest struct {
	Difficulty      string `json:"difficulty"`
	DurationSeconds int    `json:"duration_seconds"`
}

// selectCardRequest is the OpSelectCard payload.
type selectCardRequest struct {
	Key string `json:"key"`
}

var eventOpCodes = map[app.EventKind]int64{
	app.EventCardShown:    OpCardShown,
	app.EventCardRemoved:  OpCardRemoved,
	app.EventCardSelected: OpCardSelected,
	app.EventFeedback:     OpFeedback,
	app.EventTime:         OpTime,
	app.EventMatchCount:   OpMatchCount,
	app.EventControls:     OpControls,
	app.EventPhase:        OpPhase,
	app.EventHint:         OpHintShown,
	app.EventError:        OpGameError,
}

// encodeEvent maps an app event to its op code and JSON body.
func encodeEvent(ev app.Event) (int64, []byte, error) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		return 0, nil, fmt.Errorf("unknown event kind: %s", ev.Kind)
	}
	data, err := json.Marshal(ev.Payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %s: %w", ev.Kind, err)
	}
	return opCode, data, nil
}

// decodeMatchParams reads MatchCreate params. Numbers may arrive as strings
// when the match is created from a client RPC.
func decodeMatchParams(params map[string]interface{}) (matchParams, error) {
	var out matchParams
	if len(params) == 0 {
		return out, nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(stringToIntHookFunc(), float64ToIntHookFunc()),
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(params); err != nil {
		return out, fmt.Errorf("invalid match params: %w", err)
	}
	return out, nil
}

func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

func float64ToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.Float64 && to == reflect.Int {
			f := data.(float64)
			if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
				return nil, fmt.Errorf("%v is not a whole number", f)
			}
			return int(f), nil
		}
		return data, nil
	}
}
