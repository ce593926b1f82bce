package project

import "github.com/klytics/bidkit/internal/formats/docx"

// infoLabels are the first-column labels of the project info table,
// in row order.
var infoLabels = [...]string{
	rowName:           "项目名称",
	rowCode:           "招标编号",
	rowDate:           "开标日期",
	rowDestination:    "目的地",
	rowTransport:      "运输方式",
	rowTransportTime:  "运输时间",
	rowTotalValue:     "对外金额",
	rowLowPrice:       "是否最低价中标",
	rowSecondaryList:  "是否有二级供货清单",
	rowTechService:    "是否有技术服务",
	rowTechPeople:     "技术服务人数",
	rowTechDays:       "技术服务天数",
	rowAfterSales:     "是否有售后服务",
	rowTraining:       "是否有来华培训",
	rowTrainingPeople: "培训人数",
	rowTrainingDays:   "培训天数",
	rowInspection:     "法检物资",
	rowMainItems:      "主要标的",
}

var goodsHeader = []string{"序号", "品名", "HS编码", "数量", "单位", "技术规格", "检验标准"}

// DocumentFromRecord lays a record out as a project document with the
// tables RecordFromDocument reads.
func DocumentFromRecord(r *Record) *docx.Document {
	values := [...]string{
		rowName:           r.Name,
		rowCode:           r.Code,
		rowDate:           r.Date,
		rowDestination:    r.Destination,
		rowTransport:      r.Transport,
		rowTransportTime:  r.TransportTime,
		rowTotalValue:     r.TotalValue,
		rowLowPrice:       r.LowPrice,
		rowSecondaryList:  r.SecondaryList,
		rowTechService:    r.TechService,
		rowTechPeople:     r.TechPeople,
		rowTechDays:       r.TechDays,
		rowAfterSales:     r.AfterSales,
		rowTraining:       r.Training,
		rowTrainingPeople: r.TrainingPeople,
		rowTrainingDays:   r.TrainingDays,
		rowInspection:     r.Inspection,
		rowMainItems:      r.MainItems,
	}
	info := make([][]string, len(values))
	for i, v := range values {
		info[i] = []string{infoLabels[i], v}
	}

	goods := [][]string{goodsHeader}
	for _, c := range r.Commodities {
		goods = append(goods, []string{c.Serial, c.Name, c.HSCode, c.Quantity, c.Unit, c.Spec, c.Standard})
	}

	doc := &docx.Document{
		Nodes: []docx.Node{
			{Type: docx.NodeParagraph, Text: "项目信息"},
			tableNode(info),
			{Type: docx.NodeParagraph, Text: "供货清单"},
			tableNode(goods),
		},
		Metadata: docx.Metadata{Title: r.Name},
	}
	if len(r.Demands) > 0 {
		doc.Nodes = append(doc.Nodes,
			docx.Node{Type: docx.NodeParagraph, Text: "服务需求"},
			tableNode(r.Demands))
	}
	return doc
}

func tableNode(rows [][]string) docx.Node {
	table := docx.Node{Type: docx.NodeTable}
	for _, row := range rows {
		rowNode := docx.Node{}
		for _, text := range row {
			rowNode.Children = append(rowNode.Children, docx.Node{Type: docx.NodeParagraph, Text: text})
		}
		table.Children = append(table.Children, rowNode)
	}
	return table
}
