package pipeline

import (
	"thinktrends.com/icsr/logger"
	"thinktrends.com/icsr/mapper"
	"thinktrends.com/icsr/transform"
	"thinktrends.com/icsr/types"
	"thinktrends.com/icsr/utils"
	"thinktrends.com/icsr/validate"
	"thinktrends.com/icsr/xmltree"
)

// Pipeline processes one document's bytes into exactly one Result. The
// channel carries a single value and is then closed.
type Pipeline func(Request) <-chan Result

type IntakeParams struct {
	Profile types.Profile `json:"profile"`
}

func GetDefaultIntakeParams() IntakeParams {
	return IntakeParams{Profile: types.DefaultProfile()}
}

// Intake builds the E2B(R2) intake pipeline: reader, mapper, validator,
// transformer, classifier. Every stage is a pure in-memory transformation;
// the same bytes always produce the same result, so callers may retry
// freely.
func Intake(params IntakeParams) (Pipeline, error) {
	intakeLogger := logger.NewLogger("E2B R2 intake pipeline")
	if err := params.Profile.Validate(); err != nil {
		intakeLogger.Err(err).
			Interface("profile", params.Profile).
			Msg("Refusing to start pipeline with an unusable validation profile")
		return nil, err
	}
	intakeLogger.Info().
		Interface("params", params).
		Msg("Starting E2B R2 intake pipeline (see parameters in 'params' field)")

	return func(request Request) <-chan Result {
		responseChan := make(chan Result, 1)
		pplnLog := intakeLogger.With().Str("tid", request.Tid).Logger()
		pplnLog.Info().Msg("Started intake pipeline")

		go func() {
			defer close(responseChan)
			result := Process(request, params.Profile)
			pplnLog.Info().
				Str("disposition", string(result.Disposition)).
				Str("reason", string(result.Reason)).
				Int("findings", len(result.Findings)).
				Msg("Finished intake pipeline")
			responseChan <- result
		}()

		return responseChan
	}, nil
}

// Process runs the full per-document pipeline. Failures never escape: every
// stage outcome folds into the Result, and a malformed or structurally
// broken document is a terminal per-document verdict that leaves the rest
// of the batch untouched.
func Process(request Request, profile types.Profile) Result {
	fingerprint := utils.Fingerprint(request.Data)

	root, err := xmltree.Parse(request.Data)
	if err != nil {
		if malformed, ok := types.AsMalformedDocument(err); ok {
			return rejectedMalformed(request.Tid, fingerprint, malformed)
		}
		return rejectedMalformed(request.Tid, fingerprint, &types.MalformedDocumentError{
			Reason: "unexpected reader failure",
			Err:    err,
		})
	}

	doc, findings, err := mapper.Map(root)
	if err != nil {
		if structural, ok := types.AsStructuralViolation(err); ok {
			return rejectedStructural(request.Tid, fingerprint, structural)
		}
		return rejectedStructural(request.Tid, fingerprint, &types.StructuralViolationError{
			Path:    "ichicsr",
			Message: err.Error(),
		})
	}

	findings = append(findings, validate.Check(doc, profile)...)
	report := transform.Build(doc)
	return classify(request.Tid, fingerprint, report, findings)
}
