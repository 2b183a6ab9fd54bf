package tracing

import (
	"context"

	"github.com/ahasselbring/GameController-HL/datarecording"
)

// ReadActions returns the recorded actions in the order they were dispatched.
func ReadActions(
	ctx context.Context,
	reader datarecording.DataReader,
	params datarecording.QueryParams,
) ([]ActionRecord, int, error) {
	reader.MapTable(ActionTableName, ActionRecord{})

	if params.OrderBy == "" {
		params.OrderBy = "rowid"
	}

	results, total, err := reader.Query(ctx, ActionTableName, params)
	if err != nil {
		return nil, 0, err
	}

	records := make([]ActionRecord, 0, len(results))
	for _, r := range results {
		records = append(records, *r.(*ActionRecord))
	}

	return records, total, nil
}
