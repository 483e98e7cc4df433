package services

import (
	"context"
	"fmt"
	"strings"

	"procurement-backend/llm"
	"procurement-backend/models"
)

// VendorReply is the current summary for one vendor.
type VendorReply struct {
	VendorEmail string `json:"vendorEmail"`
	Summary     string `json:"summary"`
}

type Comparison struct {
	RfpID         uint          `json:"rfpId"`
	VendorReplies []VendorReply `json:"vendorReplies"`
	Comparison    string        `json:"comparison"`
}

// CompareVendors asks the model for an HTML comparison of the latest reply of
// every vendor. With no usable replies it returns NoRepliesMessage without
// calling the model. The model's HTML is returned as-is.
func (s *Service) CompareVendors(ctx context.Context, rfpID uint) (*Comparison, error) {
	rfp, err := s.store.FindRfpWithReplies(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	replies := LatestReplies(rfp.SentRfps)
	if len(replies) == 0 {
		return &Comparison{RfpID: rfp.ID, VendorReplies: []VendorReply{}, Comparison: NoRepliesMessage}, nil
	}

	prompt, err := buildComparisonPrompt(rfp.OriginalText, rfp.Structured.Data(), replies)
	if err != nil {
		return nil, fmt.Errorf("build comparison prompt: %w", err)
	}
	html, err := s.llm.Generate(ctx, llm.Request{Purpose: "comparison", Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("compare vendors: %w", err)
	}

	return &Comparison{RfpID: rfp.ID, VendorReplies: replies, Comparison: html}, nil
}

// LatestReplies picks, per vendor email (case-insensitive), the reply with the
// highest id across all of that vendor's SentRfps. Vendors whose latest reply
// has no summary are left out. Order follows the first SentRfp of each vendor
// that has any reply.
func LatestReplies(sent []models.SentRfp) []VendorReply {
	type latest struct {
		email string
		reply *models.Reply
	}
	var order []string
	byVendor := make(map[string]*latest)

	for i := range sent {
		key := strings.ToLower(strings.TrimSpace(sent[i].VendorEmail))
		for j := range sent[i].Replies {
			r := &sent[i].Replies[j]
			cur, ok := byVendor[key]
			if !ok {
				byVendor[key] = &latest{email: sent[i].VendorEmail, reply: r}
				order = append(order, key)
				continue
			}
			if r.ID > cur.reply.ID {
				cur.reply = r
			}
		}
	}

	out := make([]VendorReply, 0, len(order))
	for _, key := range order {
		l := byVendor[key]
		if strings.TrimSpace(l.reply.Parsed) == "" {
			continue
		}
		out = append(out, VendorReply{VendorEmail: l.email, Summary: l.reply.Parsed})
	}
	return out
}
