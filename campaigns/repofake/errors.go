package fakecampaignrepo

import "errors"

var errFakeForeignKey = errors.New("FOREIGN KEY constraint failed")
