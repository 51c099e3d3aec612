// Copyright 2025 RabbitHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package predictor

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/rabbithq/rabbit/internal/features"
)

// Config locates the model and the ONNX runtime shared library.
type Config struct {
	// ModelPath is the BIMBAS model file.
	ModelPath string

	// LibraryPath optionally overrides where the onnxruntime shared
	// library is loaded from. Empty means the platform default.
	LibraryPath string

	Log zerolog.Logger
}

// ONNXPredictor runs the BIMBAS model through ONNX Runtime. The model
// takes a 1x38 float32 tensor and exposes the class probabilities on
// its second output.
type ONNXPredictor struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	log        zerolog.Logger
}

// NewONNXPredictor loads the model and prepares an inference session.
func NewONNXPredictor(cfg Config) (*ONNXPredictor, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", cfg.ModelPath, err)
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initializing onnx runtime: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", cfg.ModelPath, err)
	}
	if len(inputs) < 1 || len(outputs) < 2 {
		return nil, fmt.Errorf("model at %s has unexpected signature: %d inputs, %d outputs",
			cfg.ModelPath, len(inputs), len(outputs))
	}
	inputName := inputs[0].Name
	outputName := outputs[1].Name

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", cfg.ModelPath, err)
	}

	cfg.Log.Debug().
		Str("path", cfg.ModelPath).
		Str("input", inputName).
		Str("output", outputName).
		Msg("model loaded")

	return &ONNXPredictor{
		session:    session,
		inputName:  inputName,
		outputName: outputName,
		log:        cfg.Log,
	}, nil
}

// Predict scores one feature row and returns the verdict.
func (p *ONNXPredictor) Predict(row *features.Row) (Prediction, error) {
	input, err := ort.NewTensor(ort.NewShape(1, features.Count), row.Vector())
	if err != nil {
		return Prediction{}, fmt.Errorf("building input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return Prediction{}, fmt.Errorf("building output tensor: %w", err)
	}
	defer output.Destroy()

	if err := p.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return Prediction{}, fmt.Errorf("running model inference: %w", err)
	}

	probs := output.GetData()
	if len(probs) < 2 {
		return Prediction{}, fmt.Errorf("model returned %d probabilities, want 2", len(probs))
	}
	probability := float64(probs[1])

	pred := Decide(probability)
	p.log.Debug().
		Str("login", row.Login).
		Float64("probability", probability).
		Str("type", pred.UserType).
		Float64("confidence", pred.Confidence).
		Msg("prediction computed")
	return pred, nil
}

// Close releases the inference session.
func (p *ONNXPredictor) Close() error {
	if p.session == nil {
		return nil
	}
	err := p.session.Destroy()
	p.session = nil
	return err
}
