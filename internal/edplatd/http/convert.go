package http

import (
	"github.com/khaledhosny129/Educational-platform/api/types/v1alpha1"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/activation"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/catalog"
	"github.com/khaledhosny129/Educational-platform/internal/edplatd/code"
)

func toVideoKey(key catalog.Key) v1alpha1.VideoKey {
	p := key.Parts()
	out := v1alpha1.VideoKey{
		Grade:   p.Grade,
		Level:   p.Level,
		Kind:    v1alpha1.VideoKind(p.Kind),
		Session: p.Session,
	}
	if p.Kind == catalog.KindRevision {
		out.Revision = p.Part
	} else {
		out.Unit = p.Part
	}
	return out
}

func toVideo(v *catalog.Video) *v1alpha1.Video {
	if v == nil {
		return nil
	}
	return &v1alpha1.Video{
		ID:          v.ID,
		Key:         toVideoKey(v.Key),
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		YouTubeCode: v.YouTubeCode,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toVideos(videos []*catalog.Video) []v1alpha1.Video {
	out := make([]v1alpha1.Video, 0, len(videos))
	for _, v := range videos {
		out = append(out, *toVideo(v))
	}
	return out
}

func toAccessCode(c *code.AccessCode) *v1alpha1.AccessCode {
	if c == nil {
		return nil
	}
	return &v1alpha1.AccessCode{
		ID:        c.ID,
		Code:      c.Code,
		Used:      c.Used,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}

func toAccessCodes(codes []*code.AccessCode) []v1alpha1.AccessCode {
	out := make([]v1alpha1.AccessCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, *toAccessCode(c))
	}
	return out
}

func toActivation(d *activation.Detail) v1alpha1.Activation {
	return v1alpha1.Activation{
		ID:          d.ID,
		User:        v1alpha1.UserRef{ID: d.UserID},
		Video:       toVideo(d.Video),
		Code:        toAccessCode(d.Code),
		ActivatedAt: d.ActivatedAt,
		ExpiresAt:   d.ExpiresAt,
	}
}

func toActivations(details []*activation.Detail) []v1alpha1.Activation {
	out := make([]v1alpha1.Activation, 0, len(details))
	for _, d := range details {
		out = append(out, toActivation(d))
	}
	return out
}
