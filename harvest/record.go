package harvest

import "briefpipe/store"

// toRecord maps an outcome onto the persistence schema.
func toRecord(out Outcome) store.ProjectRecord {
	rec := store.ProjectRecord{
		URL:           out.URL,
		ProjectNumber: out.ProjectNumber,
		Name:          out.ProjectName,
		DSID:          out.DSID,
		Success:       out.Success,
		Error:         out.Error,
	}
	for _, r := range out.Results {
		rec.Files = append(rec.Files, store.FileRecord{
			FileName:  r.FileName,
			SizeBytes: r.SizeBytes,
			Text:      r.Content.Text,
			Comments:  r.Content.Comments,
			Fields:    r.Fields,
			Links:     r.Content.LinksDetailed,
		})
	}
	return rec
}
