package store

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/kittclouds/wikiqa/internal/errors"
	"github.com/kittclouds/wikiqa/internal/logger"
)

// storeAll applies store to every record. Malformed records are skipped,
// storage failures are counted; neither stops the batch.
func storeAll(recs []Record, store func(Record) error, log *zap.SugaredLogger) ImportResult {
	var res ImportResult
	for _, rec := range recs {
		err := store(rec)
		switch {
		case err == nil:
			res.Stored++
			continue
		case errors.Is(err, ErrMalformedRecord):
			res.Skipped++
			log.Warnw("skipping malformed record", logger.FieldEntityID, rec.EntityID, logger.FieldError, err)
		default:
			res.Failed++
			log.Errorw("failed to store entity", logger.FieldEntityID, rec.EntityID, logger.FieldError, err)
		}
		res.Errors = append(res.Errors, err)
	}
	log.Infow("import finished",
		logger.FieldCount, res.Stored,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res
}

// importFile decodes a records file and hands the records to storeEntities.
// Only read and decode failures are returned as errors.
func importFile(f files, path string, storeEntities func([]Record) ImportResult, log *zap.SugaredLogger) (ImportResult, error) {
	fsPath, err := f.resolve(path)
	if err != nil {
		return ImportResult{}, err
	}
	data, err := f.read(fsPath)
	if err != nil {
		return ImportResult{}, errors.Wrapf(err, "read %s", path)
	}
	recs, err := DecodeRecords(bytes.NewReader(data))
	if err != nil {
		return ImportResult{}, errors.WithHint(
			errors.Wrapf(err, "decode %s", path),
			"expected a JSON array of entity records or an object keyed by entity id",
		)
	}
	log.Infow("importing records", logger.FieldPath, path, logger.FieldCount, len(recs))
	return storeEntities(recs), nil
}

// SampleRecords returns the built-in demo entities: China and Beijing,
// referencing each other.
func SampleRecords() []Record {
	return []Record{
		{
			EntityID:    "Q148",
			Label:       "中国",
			Description: "亚洲东部国家",
			Type:        "country",
			Aliases: []RecordAlias{
				{Value: "People's Republic of China", Language: "en"},
				{Value: "PRC", Language: "en"},
				{Value: "中华人民共和国", Language: "zh"},
			},
			Statements: []RecordStatement{
				{Property: RecordProperty{PropertyID: "P36", Label: "首都"}, EntityID: "Q956", Value: "北京"},
				{Property: RecordProperty{PropertyID: "P37", Label: "官方语言"}, Value: "汉语"},
				{Property: RecordProperty{PropertyID: "P1082", Label: "人口"}, Value: "14亿"},
			},
		},
		{
			EntityID:    "Q956",
			Label:       "北京",
			Description: "中华人民共和国首都",
			Type:        "city",
			Aliases: []RecordAlias{
				{Value: "Beijing", Language: "en"},
				{Value: "Peking", Language: "en"},
			},
			Statements: []RecordStatement{
				{Property: RecordProperty{PropertyID: "P17", Label: "国家"}, EntityID: "Q148", Value: "中国"},
				{Property: RecordProperty{PropertyID: "P1082", Label: "人口"}, Value: "2154万"},
			},
		},
	}
}
