package scenes

import "scenepartner/pkg/model"

// BuiltIn returns the fixed built-in scene catalog. The slice is rebuilt on
// every call so callers can never mutate the catalog.
func BuiltIn() []*model.Scene {
	return []*model.Scene{
		{
			ID:          "med-01",
			Title:       "Triage Bay 3",
			Genre:       "Medical Drama",
			Roles:       [2]string{"Dr. Alex Chen", "Dr. Rivera"},
			Description: "ER crisis - two doctors disagree on treatment under pressure",
			Lines: []model.Line{
				{Speaker: "Dr. Alex Chen", Text: "We don't have time for this! Start the transfusion now or we lose him!"},
				{Speaker: "Dr. Rivera", Text: "His blood type hasn't come back yet. We could kill him faster."},
				{Speaker: "Dr. Alex Chen", Text: "O-negative. Universal donor. You know the protocol."},
				{Speaker: "Dr. Rivera", Text: "The protocol also says confirm before we pump unknown blood into a trauma patient!"},
				{Speaker: "Dr. Alex Chen", Text: "Look at his vitals! He's crashing. Make the call, Rivera!"},
				{Speaker: "Dr. Rivera", Text: "Fine. O-neg, two units. But if this goes south—"},
				{Speaker: "Dr. Alex Chen", Text: "It won't. Trust me."},
			},
			Beats: []string{"Urgent", "Life-or-death stakes", "Professional conflict", "Quick decision-making"},
		},
		{
			ID:          "crime-01",
			Title:       "Late Shift",
			Genre:       "Crime/Detective",
			Roles:       [2]string{"Detective Morgan", "Suspect Hale"},
			Description: "Interrogation room - detective has evidence, needs confession",
			Lines: []model.Line{
				{Speaker: "Detective Morgan", Text: "I know you were there that night, Hale. Your car was on the traffic cam two blocks away."},
				{Speaker: "Suspect Hale", Text: "Lots of cars look like mine. Black sedans are pretty common."},
				{Speaker: "Detective Morgan", Text: "With your custom plates? H-A-L-3-0-0? Not so common."},
				{Speaker: "Suspect Hale", Text: "I was in the neighborhood. That's not a crime."},
				{Speaker: "Detective Morgan", Text: "Being in the neighborhood at 11:47 PM, the exact time of the break-in?"},
				{Speaker: "Suspect Hale", Text: "Coincidence."},
				{Speaker: "Detective Morgan", Text: "Your fingerprints on the back door handle. Also a coincidence?"},
				{Speaker: "Suspect Hale", Text: "I want my lawyer."},
			},
			Beats: []string{"Controlled intensity", "Cat and mouse", "Strategic questioning", "Rising tension"},
		},
		{
			ID:          "romcom-01",
			Title:       "The Elevator Pitch",
			Genre:       "Romantic Comedy",
			Roles:       [2]string{"Sam", "Jamie"},
			Description: "Stuck in elevator with ex - awkward romantic tension",
			Lines: []model.Line{
				{Speaker: "Sam", Text: "I swear I'm not following you. We just work on the same floors now, apparently."},
				{Speaker: "Jamie", Text: "Right. The universe and its impeccable timing."},
				{Speaker: "Sam", Text: "Or... a broken elevator."},
				{Speaker: "Jamie", Text: "Either way, you finally have two minutes to pitch that apology you've been working on."},
				{Speaker: "Sam", Text: "Who says I've been working on an apology?"},
				{Speaker: "Jamie", Text: "Please. I know that look. You've been rehearsing."},
				{Speaker: "Sam", Text: "Okay, fine. I'm sorry. I was an idiot. A coward. And I should have—"},
				{Speaker: "Jamie", Text: "Stopped at 'idiot.' That one I believe."},
				{Speaker: "Sam", Text: "Can we start over? New floor, new chance?"},
				{Speaker: "Jamie", Text: "We're stuck between floors, Sam."},
				{Speaker: "Sam", Text: "Exactly. Nowhere to go but up."},
			},
			Beats: []string{"Awkward humor", "Vulnerability", "Romantic tension", "Witty banter"},
		},
		{
			ID:          "hero-01",
			Title:       "Save the City",
			Genre:       "Superhero/Action",
			Roles:       [2]string{"Blaze", "Oracle"},
			Description: "Hero must choose between saving civilians or stopping villain",
			Lines: []model.Line{
				{Speaker: "Blaze", Text: "You know I can't let them die. Get the civilians out. I'm going after Vortex alone."},
				{Speaker: "Oracle", Text: "You'll never make it. He's got the entire building rigged."},
				{Speaker: "Blaze", Text: "Then I'll have to be faster than an explosion. Wouldn't be the first time."},
				{Speaker: "Oracle", Text: "Your powers are at 40%. You're not invincible, Blaze!"},
				{Speaker: "Blaze", Text: "I don't need to be invincible. I just need to be enough."},
				{Speaker: "Oracle", Text: "This is suicide!"},
				{Speaker: "Blaze", Text: "No. This is what we signed up for. Now GO!"},
			},
			Beats: []string{"Heroic determination", "High stakes", "Sacrifice", "Quick action"},
		},
		{
			ID:          "kitchen-01",
			Title:       "The Bear Trap",
			Genre:       "Restaurant Drama",
			Roles:       [2]string{"Chef Luca", "Sous Chef Mara"},
			Description: "Kitchen chaos during dinner rush - critic in dining room",
			Lines: []model.Line{
				{Speaker: "Chef Luca", Text: "Behind! BEHIND! Mara, where are my scallops? Table six has been waiting twenty minutes!"},
				{Speaker: "Sous Chef Mara", Text: "Scallops are up in thirty seconds. We had to start a new batch."},
				{Speaker: "Chef Luca", Text: "Why? What happened to the first batch?"},
				{Speaker: "Sous Chef Mara", Text: "Marco burned them. All twelve."},
				{Speaker: "Chef Luca", Text: "Are you KIDDING me? The Times critic is at table six!"},
				{Speaker: "Sous Chef Mara", Text: "I know! I'm fixing it!"},
				{Speaker: "Chef Luca", Text: "You don't fix perfection, you execute it the first time! Plate it. Now!"},
				{Speaker: "Sous Chef Mara", Text: "Yes, Chef!"},
			},
			Beats: []string{"High energy", "Professional pressure", "Controlled chaos", "Intensity"},
		},
		{
			ID:          "teen-01",
			Title:       "Hallway Whisper",
			Genre:       "Coming-of-Age",
			Roles:       [2]string{"Jamie", "Taylor"},
			Description: "High school hallway - confession about secret crush",
			Lines: []model.Line{
				{Speaker: "Jamie", Text: "I need to tell you something and I need you to not make it weird."},
				{Speaker: "Taylor", Text: "When you start like that, it's already weird."},
				{Speaker: "Jamie", Text: "I'm serious. This is... it's important."},
				{Speaker: "Taylor", Text: "Okay. I'm listening."},
				{Speaker: "Jamie", Text: "I think I like someone. Like, really like them. And I don't know what to do about it."},
				{Speaker: "Taylor", Text: "Wait. You? The person who plans everything three months in advance doesn't have a plan?"},
				{Speaker: "Jamie", Text: "There's no plan for this! What if they don't feel the same way?"},
				{Speaker: "Taylor", Text: "Then they're an idiot. But you'll never know unless you tell them."},
				{Speaker: "Jamie", Text: "What if it ruins everything?"},
				{Speaker: "Taylor", Text: "What if it doesn't?"},
			},
			Beats: []string{"Nervous vulnerability", "Friendship support", "Teen anxiety", "Emotional honesty"},
		},
		{
			ID:          "thriller-01",
			Title:       "Don't Look Down",
			Genre:       "Thriller/Horror",
			Roles:       [2]string{"Sam", "Morgan"},
			Description: "Dark basement - something moving behind locked door",
			Lines: []model.Line{
				{Speaker: "Sam", Text: "Did you hear that? No, shut up and listen. There it is again."},
				{Speaker: "Morgan", Text: "It's probably just the pipes. Old buildings—"},
				{Speaker: "Sam", Text: "Pipes don't scratch. Something's moving down there."},
				{Speaker: "Morgan", Text: "The door's locked. We should call the police."},
				{Speaker: "Sam", Text: "No signal. We're on our own."},
				{Speaker: "Morgan", Text: "Then we leave. Now."},
				{Speaker: "Sam", Text: "The scratching stopped."},
				{Speaker: "Morgan", Text: "That's worse. That's so much worse."},
			},
			Beats: []string{"Whispered tension", "Building dread", "Controlled panic", "Suspense"},
		},
		{
			ID:          "period-01",
			Title:       "The Proposal",
			Genre:       "Period Drama",
			Roles:       [2]string{"Lady Catherine", "Lord Blackwood"},
			Description: "Drawing room, 1815 - marriage proposal gone wrong",
			Lines: []model.Line{
				{Speaker: "Lord Blackwood", Text: "Lady Catherine, I come before you with a proposal of marriage."},
				{Speaker: "Lady Catherine", Text: "How perfectly... direct of you, my lord."},
				{Speaker: "Lord Blackwood", Text: "My estates require an heir. Your family requires financial security. It is, as they say, mutually beneficial."},
				{Speaker: "Lady Catherine", Text: "A marriage of convenience. How perfectly mercenary. Did you rehearse this insult?"},
				{Speaker: "Lord Blackwood", Text: "I assure you, I meant no insult. I speak only of practicality."},
				{Speaker: "Lady Catherine", Text: "Practicality. Yes. How romantic. Tell me, did you bring a contract, or shall we discuss terms over tea?"},
				{Speaker: "Lord Blackwood", Text: "Lady Catherine, I—"},
				{Speaker: "Lady Catherine", Text: "Save your breath, my lord. I'd sooner marry the gardener."},
			},
			Beats: []string{"Refined anger", "Sharp wit", "Wounded pride", "Social tension"},
		},
		{
			ID:          "sports-01",
			Title:       "Locker Room",
			Genre:       "Sports Drama",
			Roles:       [2]string{"Coach Rivera", "Star Player Jackson"},
			Description: "Halftime - team losing, player wants to quit",
			Lines: []model.Line{
				{Speaker: "Coach Rivera", Text: "You walk out that door now, you're not just quitting on me. You're quitting on every kid who looks up to you."},
				{Speaker: "Star Player Jackson", Text: "Those kids don't know what it's like. The pressure, the expectations—"},
				{Speaker: "Coach Rivera", Text: "You think I don't know pressure? I played in the same system you did!"},
				{Speaker: "Star Player Jackson", Text: "And look where it got you. Coaching high school ball instead of the pros."},
				{Speaker: "Coach Rivera", Text: "You know what? You're right. I didn't make it. But I'm still here. Still fighting. Can you say the same?"},
				{Speaker: "Star Player Jackson", Text: "Coach, I—"},
				{Speaker: "Coach Rivera", Text: "No. You listen. Talent gets you in the door. Heart keeps you in the game. What's it gonna be?"},
			},
			Beats: []string{"Passionate", "Motivational", "Tough love", "Inspiring"},
		},
		{
			ID:          "workplace-01",
			Title:       "The Performance Review",
			Genre:       "Workplace Comedy",
			Roles:       [2]string{"Taylor", "Boss Linda"},
			Description: "Office meeting - absurd corporate feedback destroys promotion dreams",
			Lines: []model.Line{
				{Speaker: "Boss Linda", Text: "Taylor, your synergy with the team's paradigm shift needs work."},
				{Speaker: "Taylor", Text: "I'm sorry, could you... could you define that? In actual words?"},
				{Speaker: "Boss Linda", Text: "Your collaborative dynamic vis-à-vis our core competencies shows minimal bandwidth optimization."},
				{Speaker: "Taylor", Text: "Are you... are you speaking English right now?"},
				{Speaker: "Boss Linda", Text: "I'm trying to help you level up your value proposition."},
				{Speaker: "Taylor", Text: "Linda. I sell paper. I sell PAPER. What does any of this mean?"},
				{Speaker: "Boss Linda", Text: "This attitude is exactly why we can't move you to senior sales associate."},
				{Speaker: "Taylor", Text: "I've been here seven years!"},
				{Speaker: "Boss Linda", Text: "And with the right mindset pivot, maybe seven more until promotion!"},
			},
			Beats: []string{"Confused frustration", "Absurd humor", "Corporate satire", "Suppressed anger"},
		},
		{
			ID:          "family-01",
			Title:       "The Truth",
			Genre:       "Family Drama",
			Roles:       [2]string{"Jordan", "Mom Patricia"},
			Description: "Living room - devastating secret revealed after 20 years",
			Lines: []model.Line{
				{Speaker: "Jordan", Text: "How could you keep this from me? Twenty years, Mom. TWENTY YEARS of lies!"},
				{Speaker: "Mom Patricia", Text: "I was protecting you. You were just a child—"},
				{Speaker: "Jordan", Text: "I'm not a child anymore! I deserved to know the truth!"},
				{Speaker: "Mom Patricia", Text: "The truth would have destroyed you! It would have destroyed us!"},
				{Speaker: "Jordan", Text: "And what do you think this is doing? Right now? How am I supposed to trust anything you've ever told me?"},
				{Speaker: "Mom Patricia", Text: "Jordan, please. Let me explain—"},
				{Speaker: "Jordan", Text: "Explain what? That my entire life has been built on a lie? Save it."},
				{Speaker: "Mom Patricia", Text: "I did what I thought was right!"},
				{Speaker: "Jordan", Text: "Well you thought wrong."},
			},
			Beats: []string{"Raw emotion", "Betrayal", "Building anger", "Hurt"},
		},
		{
			ID:          "scifi-01",
			Title:       "First Contact",
			Genre:       "Sci-Fi",
			Roles:       [2]string{"Dr. Rodriguez", "Commander Hayes"},
			Description: "Space station - first confirmed alien transmission detected",
			Lines: []model.Line{
				{Speaker: "Dr. Rodriguez", Text: "It's not random noise. This is a pattern. An algorithm. Someone out there is trying to reach us."},
				{Speaker: "Commander Hayes", Text: "You're certain? This isn't another false positive?"},
				{Speaker: "Dr. Rodriguez", Text: "I've run it through every filter we have. This is deliberate. This is... it's a message."},
				{Speaker: "Commander Hayes", Text: "Can you decode it?"},
				{Speaker: "Dr. Rodriguez", Text: "Not yet. But the mathematical structure is beautiful. Elegant. Whoever sent this is... advanced."},
				{Speaker: "Commander Hayes", Text: "Or dangerous. We need to inform Earth Command before we respond."},
				{Speaker: "Dr. Rodriguez", Text: "By the time they make a decision, the signal will be gone. We have to answer NOW."},
				{Speaker: "Commander Hayes", Text: "And if we're making first contact with something hostile?"},
				{Speaker: "Dr. Rodriguez", Text: "Then at least we'll know we're not alone."},
			},
			Beats: []string{"Scientific awe", "Wonder", "Tension", "Discovery"},
		},
	}
}
