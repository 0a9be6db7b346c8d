package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All lists the cross-table invariants the marketplace must hold at any point
// in time. Each query returns rows only when its invariant is violated.
func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_finalized_stamp",
			SQL: `SELECT id, status, finalized_at FROM inquiries
                  WHERE (status = 'requested') <> (finalized_at IS NULL)`,
		},
		{
			Name: "O2_rating_exact",
			SQL: `SELECT u.id, u.average_user_rating, r.avg
                  FROM appusers u
                  LEFT JOIN (
                      SELECT recipient_id, AVG(score)::double precision AS avg
                      FROM reviews GROUP BY recipient_id
                  ) r ON r.recipient_id = u.id
                  WHERE (u.average_user_rating IS NULL) <> (r.avg IS NULL)
                     OR abs(COALESCE(u.average_user_rating, 0) - COALESCE(r.avg, 0)) > 1e-9`,
		},
		{
			Name: "O3_message_between_parties",
			SQL: `SELECT m.id FROM messages m
                  JOIN inquiries i ON i.id = m.inquiry_id
                  WHERE NOT ((m.author_id = i.owner_id AND m.recipient_id = i.sitter_id)
                          OR (m.author_id = i.sitter_id AND m.recipient_id = i.owner_id))`,
		},
		{
			Name: "O4_availability_unique_date",
			SQL: `SELECT appuser_id, date, COUNT(*) FROM availabilities
                  GROUP BY appuser_id, date HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_inquiry_parties_differ",
			SQL:  `SELECT id FROM inquiries WHERE owner_id = sitter_id`,
		},
		{
			Name: "O6_attached_pets_owned",
			SQL: `SELECT ip.inquiry_id, ip.pet_id FROM inquiry_pets ip
                  JOIN inquiries i ON i.id = ip.inquiry_id
                  JOIN pets p ON p.id = ip.pet_id
                  WHERE p.owner_id <> i.owner_id`,
		},
		{
			Name: "O7_score_range",
			SQL:  `SELECT id, score FROM reviews WHERE score < 1 OR score > 5`,
		},
		{
			Name: "O8_sitter_flag_consistent",
			SQL: `SELECT sp.appuser_id FROM sitter_profiles sp
                  JOIN appusers u ON u.id = sp.appuser_id
                  WHERE NOT u.is_sitter`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
