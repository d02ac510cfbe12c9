package letter

const (
	phDate         = "[Insert Date]"
	phStartDate    = "[Start Date]"
	phEndDate      = "[End Date]"
	phOwner        = "[Developer / Owner Name]"
	phPartner      = "[Marketing Partner Name]"
	phSalutation   = "[Sir / Madam]"
	phDesignation  = "[Partner Designation]"
	phProject      = "[Project Name]"
	phAddress      = "[Address of Project]"
	phCityStatePin = "[City, State, PIN]"
	phFullAddress  = "[Full Address]"
	phFlatType     = "[Flat Type]"
	phArea         = "[Area]"
	phFloor        = "[Floor]"
	phCommission   = "[Commission Rate]"
	phAmount       = "[Amount]"
	phExclusivity  = "[Exclusive / Non-Exclusive]"
	phPaymentDays  = "[Payment Days]"
	phNoticeDays   = "[Notice Days]"
	phJurisdiction = "[Jurisdiction]"
)

const mandateTemplate = `**MANDATE LETTER (Marketing Authority)**
---
**Date:** [Insert Date]

**To,**
**[Developer / Owner Name]**
**[Project Name]**
**[Address of Project]**
**[City, State, PIN]**

Dear **[Sir / Madam]**,

**Re: Appointment as [Partner Designation] for Sale / Lease of Property**

---

1. **Appointment**
We, **[Developer / Owner Name]**, hereby appoint **[Marketing Partner Name]** (hereinafter referred to as "the Marketing Partner"), for 90 days with effect from **[Start Date]** until **[End Date]** (unless terminated earlier as per clause 5), as **[Exclusive / Non-Exclusive]** marketing and sales partner for the property detailed below.

2. **Property Details**
- **Project:** [Project Name]
- **Flat Type:** [Flat Type]
- **Carpet / Saleable Area:** [Area]
- **Floor:** [Floor]
- **Location:** [Full Address]

3. **Authority Granted**
- **Marketing & Promotion:** Design, develop and execute all marketing campaigns (digital, print, hoarding, events).
- **Lead Generation & Show-Flat Visits:** Arrange site visits, manage inquiries, and follow up with prospective buyers.
- **Negotiation:** Negotiate sale / lease terms within the price band approved by Owner.
- **Documentation Support:** Assist in preparation of sale agreements, application forms, and related paperwork (subject to Owner's final approval).

4. **Commission & Payment Terms**
- **Commission Rate:** **[Commission Rate]** of the total sale / lease consideration, on a quoted price of **[Amount]**.
- **Payment Schedule:** Within **[Payment Days]** days of receipt of full payment from buyer / tenant.
- **TDS & GST:** As applicable per law.

5. **Term & Termination**
- **Term:** 90 Days From **[Start Date]** to **[End Date]**.
- **Early Termination:** Either party may terminate with **[Notice Days]** days' written notice.

6. **Confidentiality**
All information exchanged shall remain confidential and used solely for the purpose of this mandate.

7. **Governing Law & Dispute Resolution**
This mandate shall be governed by the laws of **India** and any disputes shall be resolved amicably; failing which, jurisdiction will lie with the courts of **[Jurisdiction]**.

---

**Accepted and Agreed:**
`
