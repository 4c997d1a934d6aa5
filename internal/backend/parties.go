// internal/backend/parties.go
package backend

import (
	"context"
	"net/url"
	"strconv"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

const (
	pathEnterprises  = "/assign/enterprises/"
	pathBosses       = "/assign/bosses/"
	pathHumanTalents = "/assign/human-talents/"
)

func (c *Client) LoadEnterprises(ctx context.Context) ([]models.Enterprise, error) {
	return loadList(ctx, c, "enterprises", pathEnterprises, nil, mapEnterprise)
}

// LoadBossesByEnterprise fetches the bosses of an enterprise. Records that
// carry no enterprise reference are attributed to enterpriseID.
func (c *Client) LoadBossesByEnterprise(ctx context.Context, enterpriseID int64) ([]models.Boss, error) {
	list, err := loadList(ctx, c, "bosses", pathBosses, enterpriseQuery(enterpriseID), mapBoss)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].EnterpriseID == 0 {
			list[i].EnterpriseID = enterpriseID
		}
	}
	return list, nil
}

// LoadHumanTalentByEnterprise fetches the human-talent contacts of an
// enterprise.
func (c *Client) LoadHumanTalentByEnterprise(ctx context.Context, enterpriseID int64) ([]models.HumanTalent, error) {
	list, err := loadList(ctx, c, "human_talents", pathHumanTalents, enterpriseQuery(enterpriseID), mapHumanTalent)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].EnterpriseID == 0 {
			list[i].EnterpriseID = enterpriseID
		}
	}
	return list, nil
}

func enterpriseQuery(id int64) url.Values {
	return url.Values{"enterprise_id": []string{strconv.FormatInt(id, 10)}}
}
